package deps

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/flutterkit/pkg/manifest"
	"github.com/fulmenhq/flutterkit/pkg/tools"
)

type scriptedExecutor struct {
	calls  []tools.ExecuteOptions
	failAt int
}

func (s *scriptedExecutor) Name() string           { return "scripted" }
func (s *scriptedExecutor) IsAvailable(string) bool { return true }

func (s *scriptedExecutor) Execute(_ context.Context, opts tools.ExecuteOptions) (*tools.ExecuteResult, error) {
	s.calls = append(s.calls, opts)
	if len(s.calls) == s.failAt {
		return &tools.ExecuteResult{ExitCode: 1, Stderr: []byte("pub failed")}, nil
	}
	return &tools.ExecuteResult{}, nil
}

func TestPlanFullCatalog(t *testing.T) {
	steps := Plan(Catalog, nil)
	require.Len(t, steps, 3)

	assert.Equal(t, []string{"pub", "add"}, steps[0].Args[:2])
	assert.Contains(t, steps[0].Args, "hooks_riverpod")
	assert.NotContains(t, steps[0].Args, "freezed")

	assert.Equal(t, []string{"pub", "add", "--dev"}, steps[1].Args[:3])
	assert.Contains(t, steps[1].Args, "build_runner")
	assert.Contains(t, steps[1].Args, "flutter_gen_runner")

	assert.Equal(t, []string{"pub", "get", "--no-example"}, steps[2].Args)
}

func TestCatalogNamesAreClean(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range Catalog {
		assert.Equal(t, strings.TrimSpace(p.Name), p.Name)
		assert.False(t, seen[p.Name], "duplicate %s", p.Name)
		seen[p.Name] = true
	}
}

func TestPlanSkipsDeclaredPackages(t *testing.T) {
	catalog := []Package{{Name: "dio"}, {Name: "intl"}, {Name: "build_runner", Dev: true}}
	existing := &manifest.Pubspec{
		Dependencies:    map[string]interface{}{"dio": "^5.0.0"},
		DevDependencies: map[string]interface{}{"build_runner": "^2.4.0"},
	}

	steps := Plan(catalog, existing)
	require.Len(t, steps, 2)
	assert.Equal(t, []string{"pub", "add", "intl"}, steps[0].Args)
	assert.Equal(t, []string{"pub", "get", "--no-example"}, steps[1].Args)
}

func TestInstallerRunsStepsInRoot(t *testing.T) {
	exec := &scriptedExecutor{}
	steps := Plan([]Package{{Name: "dio"}, {Name: "freezed", Dev: true}}, nil)

	done, err := NewInstaller(exec, "", 0).Run(context.Background(), "/app", steps)
	require.NoError(t, err)
	assert.Equal(t, 3, done)

	require.Len(t, exec.calls, 3)
	for _, c := range exec.calls {
		assert.Equal(t, "flutter", c.Tool)
		assert.Equal(t, "/app", c.WorkDir)
	}
	assert.Equal(t, "flutter pub add --dev freezed", exec.calls[1].CommandLine())
}

func TestInstallerStopsAtFirstFailure(t *testing.T) {
	exec := &scriptedExecutor{failAt: 1}
	steps := Plan([]Package{{Name: "dio"}, {Name: "freezed", Dev: true}}, nil)

	done, err := NewInstaller(exec, "fvm-flutter", 0).Run(context.Background(), "/app", steps)
	var exitErr *tools.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 0, done)
	assert.Len(t, exec.calls, 1, "later steps must not run")
	assert.Equal(t, "fvm-flutter", exec.calls[0].Tool)
}
