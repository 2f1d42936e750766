// Package manifest tracks content hashes of generated dump files so drift
// against committed references can be reported without re-reading every dump.
package manifest

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	json "github.com/goccy/go-json"
)

const (
	ManifestFile   = ".abi-manifest.json"
	CurrentVersion = "1"
)

// Manifest records the last seen hash of every dump file, keyed by path
// relative to the dump directory.
type Manifest struct {
	Version   string            `json:"version"`
	UpdatedAt time.Time         `json:"updated_at"`
	Dumps     map[string]string `json:"dumps"`
}

func NewManifest() *Manifest {
	return &Manifest{
		Version: CurrentVersion,
		Dumps:   make(map[string]string),
	}
}

// Load reads the manifest from dumpDir. A missing file yields an empty
// manifest.
func Load(dumpDir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dumpDir, ManifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return NewManifest(), nil
		}
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Dumps == nil {
		m.Dumps = make(map[string]string)
	}
	if m.Version == "" {
		m.Version = CurrentVersion
	}
	return &m, nil
}

// Save writes the manifest back to dumpDir.
func (m *Manifest) Save(dumpDir string) error {
	if m.Version == "" {
		m.Version = CurrentVersion
	}
	if m.Dumps == nil {
		m.Dumps = make(map[string]string)
	}
	m.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dumpDir, ManifestFile), data, 0644)
}

func (m *Manifest) SetDumpHash(path, hash string) {
	m.Dumps[path] = hash
}

// Changed returns the dumps whose hash differs from the recorded one,
// including dumps never recorded before.
func (m *Manifest) Changed(currentHashes map[string]string) []string {
	changed := make([]string, 0)
	for path, hash := range currentHashes {
		if m.Dumps[path] != hash {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed
}

// Missing returns recorded dumps that no longer exist on disk.
func (m *Manifest) Missing(currentHashes map[string]string) []string {
	missing := make([]string, 0)
	for path := range m.Dumps {
		if _, ok := currentHashes[path]; !ok {
			missing = append(missing, path)
		}
	}
	sort.Strings(missing)
	return missing
}
