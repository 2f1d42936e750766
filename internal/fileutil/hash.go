package fileutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// HashFile returns a short content hash, line endings normalized first so
// checked-out dumps hash identically on every platform.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	h := sha256.Sum256(NormalizeLineEndings(data))
	return hex.EncodeToString(h[:])[:16], nil
}

// NormalizeLineEndings rewrites CRLF to LF.
func NormalizeLineEndings(data []byte) []byte {
	return bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
}

// ScanDumpHashes hashes every dump file (by extension) under root, keyed by
// relative path.
func ScanDumpHashes(root, extension string) (map[string]string, error) {
	hashes := make(map[string]string)

	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() || !strings.HasSuffix(path, extension) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		hash, err := HashFile(path)
		if err != nil {
			return err
		}
		hashes[relPath] = hash
		return nil
	})

	return hashes, err
}
