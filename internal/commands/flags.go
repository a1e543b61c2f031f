package commands

import (
	"os"
	"path/filepath"

	"github.com/hay-kot/basket/internal/basket"
	"github.com/hay-kot/basket/internal/core/catalog"
	"github.com/hay-kot/basket/internal/core/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Capacity overrides history.capacity from the config file when positive.
	Capacity int

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Catalog is the product store backing catalog lookups
	Catalog catalog.Store

	// Service owns the cart and its undo/redo history
	Service *basket.Service
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "basket", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "basket")
}
