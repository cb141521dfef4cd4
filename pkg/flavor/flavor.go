// Package flavor maintains the flutter_flavorizr configuration of a project.
package flavor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/manifest"
	"github.com/fulmenhq/flutterkit/pkg/project"
	"github.com/fulmenhq/flutterkit/pkg/safeio"
	"github.com/fulmenhq/flutterkit/pkg/tools"
)

var (
	// ErrFlavorFileMissing is returned by Add when the flavor file has not been initialized.
	ErrFlavorFileMissing = errors.New("flavorizr.yaml not found (run `flutterkit flavor init` first)")
	// ErrInvalidFlavorFile is returned when the flavor file is not a mapping or
	// its flavors key is not a mapping.
	ErrInvalidFlavorFile = errors.New("flavorizr.yaml has an unexpected structure")
	// ErrInvalidFlavorName is returned for names flavorizr cannot use.
	ErrInvalidFlavorName = errors.New("invalid flavor name")
)

// DefaultFlavors are created by Init when missing.
var DefaultFlavors = []string{"dev", "staging", "prod"}

const (
	flavorsKey        = "flavors"
	firebaseDir       = ".firebase"
	placeholderAppID  = "YOUR_APPLICATION_ID"
	placeholderBundle = "YOUR_BUNDLE_ID"
	placeholderTeam   = "YOUR DEVELOPMENT TEAM ID"
)

var flavorNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// Project describes the Flutter project a flavor operation applies to.
type Project struct {
	Root       string
	Manifest   string // pubspec.yaml path
	FlavorFile string // flavorizr.yaml path
	Platforms  []string
	Firebase   bool
}

// Result reports what an operation changed.
type Result struct {
	Path    string
	Created bool
	Added   []string
}

// Manager edits the flavor file on a filesystem.
type Manager struct {
	fs afero.Fs
}

// NewManager creates a Manager operating on fs.
func NewManager(fs afero.Fs) *Manager {
	return &Manager{fs: fs}
}

// DetectFirebase reports whether the pubspec declares a firebase package.
func (m *Manager) DetectFirebase(pubspecPath string) (bool, error) {
	p, err := manifest.ReadPubspec(m.fs, pubspecPath)
	if err != nil {
		return false, err
	}
	return p.UsesFirebase(), nil
}

// Init writes the default flavor file, or adds any of the default flavors
// missing from an existing one. Existing entries are left untouched.
func (m *Manager) Init(p Project) (*Result, error) {
	if err := m.requireProject(p); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(m.fs, p.FlavorFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", p.FlavorFile, err)
	}

	res := &Result{Path: p.FlavorFile}
	var doc *manifest.Document
	if errors.Is(err, os.ErrNotExist) {
		doc, err = m.defaultDocument(p)
		if err != nil {
			return nil, err
		}
		res.Created = true
		res.Added = append(res.Added, DefaultFlavors...)
	} else {
		doc, err = manifest.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.FlavorFile, err)
		}
		flavors, err := flavorsSection(doc)
		if err != nil {
			return nil, err
		}
		for _, name := range DefaultFlavors {
			if manifest.Lookup(flavors, name) != nil {
				continue
			}
			node, err := m.flavorNode(p, name)
			if err != nil {
				return nil, err
			}
			manifest.Set(flavors, name, node)
			res.Added = append(res.Added, name)
		}
	}

	if err := m.firebaseDirs(p, res.Added); err != nil {
		return nil, err
	}
	if err := m.write(p.FlavorFile, data, doc); err != nil {
		return nil, err
	}
	return res, nil
}

// Add sets flavors.<name> in an existing flavor file, replacing any previous
// entry of that name.
func (m *Manager) Add(p Project, name string) (*Result, error) {
	if !flavorNamePattern.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFlavorName, name)
	}
	if err := m.requireProject(p); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(m.fs, p.FlavorFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFlavorFileMissing
		}
		return nil, fmt.Errorf("failed to read %s: %w", p.FlavorFile, err)
	}

	doc, err := manifest.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.FlavorFile, err)
	}
	flavors, err := flavorsSection(doc)
	if err != nil {
		return nil, err
	}
	node, err := m.flavorNode(p, name)
	if err != nil {
		return nil, err
	}
	manifest.Set(flavors, name, node)

	res := &Result{Path: p.FlavorFile, Added: []string{name}}
	if err := m.firebaseDirs(p, res.Added); err != nil {
		return nil, err
	}
	if err := m.write(p.FlavorFile, data, doc); err != nil {
		return nil, err
	}
	return res, nil
}

// Build runs flutter_flavorizr in the project root.
func Build(ctx context.Context, exec tools.ToolExecutor, flutter, root string, timeout time.Duration) (*tools.ExecuteResult, error) {
	if flutter == "" {
		flutter = "flutter"
	}
	return tools.Run(ctx, exec, tools.ExecuteOptions{
		Tool:    flutter,
		Args:    []string{"pub", "run", "flutter_flavorizr"},
		WorkDir: root,
	}, timeout)
}

func (m *Manager) requireProject(p Project) error {
	st, err := m.fs.Stat(p.Manifest)
	if err != nil || st.IsDir() {
		return fmt.Errorf("%w: %s", project.ErrNotFlutterProject, p.Root)
	}
	return nil
}

func (m *Manager) write(path string, original []byte, doc *manifest.Document) error {
	out, err := doc.Bytes()
	if err != nil {
		return err
	}
	if original != nil && bytes.Equal(original, out) {
		return nil
	}
	if err := safeio.WriteFilePreservePerms(m.fs, path, out); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Debug("wrote flavor file", logger.String("path", path))
	return nil
}

func (m *Manager) firebaseDirs(p Project, names []string) error {
	if !p.Firebase {
		return nil
	}
	for _, name := range names {
		dir := filepath.Join(p.Root, firebaseDir, name)
		if err := m.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

func flavorsSection(doc *manifest.Document) (*yaml.Node, error) {
	root := doc.Root()
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: document root is not a mapping", ErrInvalidFlavorFile)
	}
	flavors := manifest.Lookup(root, flavorsKey)
	switch {
	case flavors == nil || manifest.IsNull(flavors):
		flavors = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		manifest.Set(root, flavorsKey, flavors)
	case flavors.Kind != yaml.MappingNode:
		return nil, fmt.Errorf("%w: %q is not a mapping", ErrInvalidFlavorFile, flavorsKey)
	}
	return flavors, nil
}
