package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
)

// WriteIfChanged skips the write when the file already holds data, keeping
// mtimes stable for build tools that watch the dump files.
func WriteIfChanged(path string, data []byte) error {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, data) {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
