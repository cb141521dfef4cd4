package project

import (
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePubspec(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), []byte("name: demo\n"), 0o644))
}

func TestFindFromNestedDirectory(t *testing.T) {
	root := t.TempDir()
	writePubspec(t, root)
	nested := filepath.Join(root, "lib", "features", "home")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindStopsAtGitWorktree(t *testing.T) {
	outer := t.TempDir()
	writePubspec(t, outer)

	repo := filepath.Join(outer, "packages", "tooling")
	require.NoError(t, os.MkdirAll(repo, 0o755))
	_, err := git.PlainInit(repo, false)
	require.NoError(t, err)

	_, err = Find(filepath.Join(repo))
	assert.ErrorIs(t, err, ErrNotFlutterProject)
}

func TestFindInsideGitRepo(t *testing.T) {
	root := t.TempDir()
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)
	app := filepath.Join(root, "app")
	writePubspec(t, app)
	require.NoError(t, os.MkdirAll(filepath.Join(app, "lib"), 0o755))

	got, err := Find(filepath.Join(app, "lib"))
	require.NoError(t, err)
	assert.Equal(t, app, got)
}

func TestHasFlutterProjectIgnoresDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ManifestName), 0o755))
	assert.False(t, HasFlutterProject(root))
}

func TestPlatforms(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"web", "ios", "android"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, p), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "linux"), []byte("not a dir"), 0o644))

	got := Platforms(root)
	assert.Equal(t, []string{"android", "ios", "web"}, got)
	assert.True(t, Supports(got, "ios"))
	assert.False(t, Supports(got, "macos"))
}

func TestFindWithMarker(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".flutterkit.yaml"), []byte("project:\n  manifest: app.yaml\n"), 0o644))
	nested := filepath.Join(root, "lib")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	_, err := Find(nested)
	assert.ErrorIs(t, err, ErrNotFlutterProject)

	got, err := FindWith(nested, ".flutterkit.yaml")
	require.NoError(t, err)
	assert.Equal(t, root, got)
}
