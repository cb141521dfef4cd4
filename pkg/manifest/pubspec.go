package manifest

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Pubspec is the subset of pubspec.yaml read by flutterkit.
type Pubspec struct {
	Name            string                 `yaml:"name"`
	Dependencies    map[string]interface{} `yaml:"dependencies"`
	DevDependencies map[string]interface{} `yaml:"dev_dependencies"`
}

// ReadPubspec decodes the pubspec at path.
func ReadPubspec(fs afero.Fs, path string) (*Pubspec, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestMissing, path)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var p Pubspec
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &p, nil
}

// DependencyNames returns the runtime dependency names, sorted.
func (p *Pubspec) DependencyNames() []string {
	names := make([]string, 0, len(p.Dependencies))
	for name := range p.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UsesFirebase reports whether any runtime dependency is a firebase package.
func (p *Pubspec) UsesFirebase() bool {
	for name := range p.Dependencies {
		if strings.HasPrefix(name, "firebase") {
			return true
		}
	}
	return false
}
