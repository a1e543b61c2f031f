// Package utils holds small helpers shared by the CLI entry point.
package utils

import (
	"io"
	"sync"
)

// DeferredWriter buffers writes until Flush is called. It holds log output
// while a full-screen program owns the terminal.
type DeferredWriter struct {
	mu      sync.Mutex
	entries [][]byte
}

// Write records a copy of p.
func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries = append(d.entries, append([]byte(nil), p...))
	return len(p), nil
}

// Flush writes every buffered entry to w, in order, and empties the buffer.
// Each entry is written separately so line-oriented writers such as
// zerolog.ConsoleWriter see one event per call.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	entries := d.entries
	d.entries = nil
	d.mu.Unlock()

	for _, e := range entries {
		if _, err := w.Write(e); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of buffered entries.
func (d *DeferredWriter) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}
