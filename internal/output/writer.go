// Package output persists generated documents.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"turnslate/internal/textutil"
)

// Writer writes generated documents to disk. Unless forced, a write is
// skipped when the destination already holds identical content, so build
// watchers do not retrigger on no-op regenerations.
type Writer struct {
	force bool
}

// NewWriter creates a writer. force disables the unchanged-content skip.
func NewWriter(force bool) *Writer {
	return &Writer{force: force}
}

// Write stores doc at path, creating parent directories as needed. It
// reports whether the file was actually written.
func (w *Writer) Write(path, doc string) (bool, error) {
	if !w.force {
		if existing, err := os.ReadFile(path); err == nil && textutil.Hash(string(existing)) == textutil.Hash(doc) {
			log.Info().Str("path", path).Msg("Output unchanged, skipping write")
			return false, nil
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return false, fmt.Errorf("write output file: %w", err)
	}
	return true, nil
}
