// Package filters holds the pre-merge exclusion rules applied while turning
// a compiled artifact or source tree into a single-target dump.
package filters

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SupportedSignatureVersions lists the dump signature renderings this build
// can produce, newest last.
var SupportedSignatureVersions = []int{2}

const LatestSignatureVersion = 2

// Filters describes what to drop from a dump before it reaches the merger.
// The zero value excludes nothing and requests the latest signature version.
type Filters struct {
	IgnoredPackages  []string `yaml:"ignoredPackages"`
	IgnoredClasses   []string `yaml:"ignoredClasses"`
	NonPublicMarkers []string `yaml:"nonPublicMarkers"`
	SignatureVersion int      `yaml:"signatureVersion"`
}

// Load reads a filter config file. A missing path is not an error so callers
// can point at a conventional location unconditionally.
func Load(path string) (*Filters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Filters{}, nil
		}
		return nil, err
	}

	var f Filters
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse filter config %s: %w", path, err)
	}
	return &f, nil
}

// ResolveSignatureVersion validates the requested version, enumerating the
// supported ones on mismatch. Zero means "latest".
func (f *Filters) ResolveSignatureVersion() (int, error) {
	if f.SignatureVersion == 0 {
		return LatestSignatureVersion, nil
	}
	for _, version := range SupportedSignatureVersions {
		if f.SignatureVersion == version {
			return version, nil
		}
	}
	return 0, fmt.Errorf("unsupported signature version %d, supported versions: %v", f.SignatureVersion, SupportedSignatureVersions)
}

// Excludes evaluates the rules in fixed order: package, then class, then
// marker annotations.
func (f *Filters) Excludes(packageName, className string, annotations []string) bool {
	if f.excludesPackage(packageName) {
		return true
	}
	if className != "" && f.excludesClass(packageName, className) {
		return true
	}
	return f.excludesAnnotated(annotations)
}

// excludesPackage matches the package itself and any of its subpackages.
func (f *Filters) excludesPackage(packageName string) bool {
	for _, ignored := range f.IgnoredPackages {
		if packageName == ignored || strings.HasPrefix(packageName, ignored+".") {
			return true
		}
	}
	return false
}

func (f *Filters) excludesClass(packageName, className string) bool {
	qualified := className
	if packageName != "" {
		qualified = packageName + "." + className
	}
	for _, ignored := range f.IgnoredClasses {
		if qualified == ignored || className == ignored {
			return true
		}
	}
	return false
}

func (f *Filters) excludesAnnotated(annotations []string) bool {
	if len(f.NonPublicMarkers) == 0 {
		return false
	}
	for _, annotation := range annotations {
		for _, marker := range f.NonPublicMarkers {
			if annotation == marker {
				return true
			}
		}
	}
	return false
}
