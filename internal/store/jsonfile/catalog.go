// Package jsonfile provides JSON file-backed stores.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/hay-kot/basket/internal/core/catalog"
)

// catalogFile is the root JSON structure stored on disk.
type catalogFile struct {
	Products []catalog.Product `json:"products"`
}

// CatalogStore implements catalog.Store using a JSON file for persistence.
type CatalogStore struct {
	path string
	mu   sync.RWMutex
}

// NewCatalogStore creates a new JSON file catalog store at the given path.
func NewCatalogStore(path string) *CatalogStore {
	return &CatalogStore{path: path}
}

// List returns all products ordered by SKU.
func (s *CatalogStore) List(ctx context.Context) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}

	return f.Products, nil
}

// Get returns a product by SKU. Returns ErrNotFound if not found.
func (s *CatalogStore) Get(ctx context.Context, sku string) (catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.load()
	if err != nil {
		return catalog.Product{}, err
	}

	for _, p := range f.Products {
		if p.SKU == sku {
			return p, nil
		}
	}

	return catalog.Product{}, catalog.ErrNotFound
}

// Save creates or replaces a product.
func (s *CatalogStore) Save(ctx context.Context, p catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}

	i := slices.IndexFunc(f.Products, func(existing catalog.Product) bool {
		return existing.SKU == p.SKU
	})
	if i >= 0 {
		f.Products[i] = p
	} else {
		f.Products = append(f.Products, p)
	}

	return s.save(f)
}

// load reads the catalog file from disk.
// Returns an empty catalogFile if the file doesn't exist.
func (s *CatalogStore) load() (catalogFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return catalogFile{}, nil
		}
		return catalogFile{}, fmt.Errorf("read catalog file: %w", err)
	}

	if len(data) == 0 {
		return catalogFile{}, nil
	}

	var f catalogFile
	if err := json.Unmarshal(data, &f); err != nil {
		return catalogFile{}, fmt.Errorf("parse catalog file: %w", err)
	}

	slices.SortFunc(f.Products, func(a, b catalog.Product) int {
		return strings.Compare(a.SKU, b.SKU)
	})

	return f, nil
}

// save writes the catalog file to disk atomically.
func (s *CatalogStore) save(f catalogFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write catalog temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename catalog file: %w", err)
	}

	return nil
}
