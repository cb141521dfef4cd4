// Package assets turns the contents of an assets directory into the list of
// entries the pubspec `flutter.assets` key expects.
package assets

import (
	"errors"
	"os"
	"path"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/fulmenhq/flutterkit/pkg/logger"
)

// Kind classifies a directory entry.
type Kind int

const (
	File Kind = iota
	Directory
)

// Entry is one immediate child of the assets directory.
type Entry struct {
	Name string
	Kind Kind
}

// Path renders the entry as a manifest asset path. Directories carry a
// trailing slash so the Flutter tool includes them recursively.
func (e Entry) Path(prefix string) string {
	p := path.Join(prefix, e.Name)
	if e.Kind == Directory {
		return p + "/"
	}
	return p
}

// List is an ordered sequence of manifest asset paths.
type List []string

// Snapshotter lists an assets directory.
type Snapshotter struct {
	fs      afero.Fs
	prefix  string
	exclude []string
}

// NewSnapshotter creates a Snapshotter. prefix is the project-relative assets
// directory as it should appear in the manifest (usually "assets").
// exclude holds doublestar patterns matched against entry names.
func NewSnapshotter(fs afero.Fs, prefix string, exclude []string) *Snapshotter {
	if prefix == "" {
		prefix = "assets"
	}
	return &Snapshotter{fs: fs, prefix: prefix, exclude: exclude}
}

// Entries returns the immediate children of dir. A missing or unreadable
// directory yields no entries and no error.
func (s *Snapshotter) Entries(dir string) []Entry {
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("assets directory unreadable, treating as empty",
				logger.String("dir", dir), logger.Err(err))
		}
		return nil
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		if s.excluded(info.Name()) {
			continue
		}
		kind := File
		if info.IsDir() {
			kind = Directory
		}
		entries = append(entries, Entry{Name: info.Name(), Kind: kind})
	}
	return entries
}

// Snapshot returns the asset list for dir. It never fails.
func (s *Snapshotter) Snapshot(dir string) List {
	entries := s.Entries(dir)
	list := make(List, 0, len(entries))
	for _, e := range entries {
		list = append(list, e.Path(s.prefix))
	}
	logger.Debug("assets snapshot", logger.String("dir", dir), logger.Int("entries", len(list)))
	return list
}

func (s *Snapshotter) excluded(name string) bool {
	for _, pattern := range s.exclude {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
