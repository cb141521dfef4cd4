// Package project locates Flutter projects and inspects their layout.
package project

import (
	"errors"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"

	"github.com/fulmenhq/flutterkit/pkg/logger"
)

// ManifestName is the Flutter project manifest.
const ManifestName = "pubspec.yaml"

// ErrNotFlutterProject is returned when no pubspec.yaml is found.
var ErrNotFlutterProject = errors.New("flutter project not found (no pubspec.yaml)")

// Platform directories in the order flavor generation reports them.
var knownPlatforms = []string{"android", "ios", "windows", "linux", "macos", "web"}

// Find walks up from start to the nearest directory containing pubspec.yaml.
// The walk stops at the enclosing git worktree root when there is one, so a
// stray pubspec above the repository is never picked up.
func Find(start string) (string, error) {
	return FindWith(start)
}

// FindWith is Find where a directory holding any of markers also counts as a
// project root. Callers pass their config file so a project whose manifest
// has a custom name is still found.
func FindWith(start string, markers ...string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	boundary := worktreeRoot(abs)

	dir := abs
	for {
		if HasFlutterProject(dir) || hasMarker(dir, markers) {
			return dir, nil
		}
		if boundary != "" && dir == boundary {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ErrNotFlutterProject
}

// HasFlutterProject reports whether dir holds a pubspec.yaml.
func HasFlutterProject(dir string) bool {
	st, err := os.Stat(filepath.Join(dir, ManifestName))
	return err == nil && !st.IsDir()
}

func hasMarker(dir string, markers []string) bool {
	for _, m := range markers {
		if st, err := os.Stat(filepath.Join(dir, m)); err == nil && !st.IsDir() {
			return true
		}
	}
	return false
}

// Platforms returns the platform directories present under root.
func Platforms(root string) []string {
	var found []string
	for _, p := range knownPlatforms {
		if st, err := os.Stat(filepath.Join(root, p)); err == nil && st.IsDir() {
			found = append(found, p)
		}
	}
	return found
}

// Supports reports whether platform is present in platforms.
func Supports(platforms []string, platform string) bool {
	for _, p := range platforms {
		if p == platform {
			return true
		}
	}
	return false
}

func worktreeRoot(start string) string {
	repo, err := git.PlainOpenWithOptions(start, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	wt, err := repo.Worktree()
	if err != nil {
		return ""
	}
	root := wt.Filesystem.Root()
	logger.Trace("git worktree detected", logger.String("root", root))
	return filepath.Clean(root)
}
