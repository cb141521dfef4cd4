// Package manifest edits pubspec.yaml and other YAML project files in place,
// keeping comments and the order of keys it does not manage.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/safeio"
)

const (
	// SectionKey is the top-level pubspec section holding Flutter build settings.
	SectionKey = "flutter"
	// AssetsKey is the managed key inside SectionKey.
	AssetsKey = "assets"
)

var (
	// ErrManifestMissing is returned when the manifest file does not exist.
	// The manifest is never created implicitly.
	ErrManifestMissing = errors.New("pubspec.yaml not found")
	// ErrSectionUnavailable is returned when the flutter section (or the
	// document root) exists but is not a mapping.
	ErrSectionUnavailable = errors.New("could not find or create flutter section in pubspec.yaml")
)

// Result describes a completed patch.
type Result struct {
	Path    string
	Assets  int
	Changed bool
}

// Patcher rewrites the flutter.assets list of a manifest.
type Patcher struct {
	fs afero.Fs
}

// NewPatcher creates a Patcher operating on fs.
func NewPatcher(fs afero.Fs) *Patcher {
	return &Patcher{fs: fs}
}

// Patch replaces flutter.assets in the manifest at path with assets. The
// flutter section is created when absent. The file is rewritten with a single
// write, and not at all when the serialized content is unchanged.
func (p *Patcher) Patch(path string, assets []string) (*Result, error) {
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestMissing, path)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	updated, err := Apply(data, assets)
	if err != nil {
		return nil, err
	}

	res := &Result{Path: path, Assets: len(assets)}
	if bytes.Equal(data, updated) {
		logger.Debug("manifest already up to date", logger.String("path", path))
		return res, nil
	}

	if err := safeio.WriteFilePreservePerms(p.fs, path, updated); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	res.Changed = true
	return res, nil
}

// Apply performs the patch on manifest text and returns the new text. Only the
// lines of flutter.assets change for block-style manifests; other layouts are
// re-encoded from the node tree.
func Apply(data []byte, assets []string) ([]byte, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := checkSection(doc.Root()); err != nil {
		return nil, err
	}
	if out, ok := splice(data, doc, assets); ok {
		return out, nil
	}

	section, err := ensureSection(doc.Root())
	if err != nil {
		return nil, err
	}
	Set(section, AssetsKey, StringSequence(assets))

	return doc.Bytes()
}

func checkSection(root *yaml.Node) error {
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: document root is not a mapping", ErrSectionUnavailable)
	}
	if section := Lookup(root, SectionKey); section != nil && !IsNull(section) && section.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: %q is not a mapping", ErrSectionUnavailable, SectionKey)
	}
	return nil
}

func ensureSection(root *yaml.Node) (*yaml.Node, error) {
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: document root is not a mapping", ErrSectionUnavailable)
	}

	section := Lookup(root, SectionKey)
	switch {
	case section == nil:
		section = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		Set(root, SectionKey, section)
	case IsNull(section):
		replacement := &yaml.Node{
			Kind:        yaml.MappingNode,
			Tag:         "!!map",
			HeadComment: section.HeadComment,
			LineComment: section.LineComment,
			FootComment: section.FootComment,
		}
		Set(root, SectionKey, replacement)
		section = replacement
	case section.Kind != yaml.MappingNode:
		return nil, fmt.Errorf("%w: %q is not a mapping", ErrSectionUnavailable, SectionKey)
	}
	return section, nil
}
