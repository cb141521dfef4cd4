package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fulmenhq/flutterkit/pkg/tools"
)

// resetCommands restores every flag in the tree to its default and clears
// the context cobra copies into subcommands, so package-level commands do not
// carry state between tests.
func resetCommands(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	c.SetContext(nil) //nolint:staticcheck // cobra only inherits the root context into a nil one
	for _, child := range c.Commands() {
		resetCommands(child)
	}
}

func execRoot(t *testing.T, args []string) (string, error) {
	t.Helper()
	return execRootContext(t, context.Background(), nil, args)
}

func execRootContext(t *testing.T, ctx context.Context, stdin io.Reader, args []string) (string, error) {
	t.Helper()
	resetCommands(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	rootCmd.SetIn(stdin)
	full := append([]string{"--log-level", "error"}, args...)
	rootCmd.SetArgs(full)
	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

// newFlutterProject creates a minimal project and returns its root.
func newFlutterProject(t *testing.T, pubspec string) string {
	t.Helper()
	dir := t.TempDir()
	if pubspec == "" {
		pubspec = "name: demo\ndependencies:\n  flutter:\n    sdk: flutter\nflutter:\n  uses-material-design: true\n"
	}
	writeFile(t, filepath.Join(dir, "pubspec.yaml"), pubspec)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// scriptedTool is a ToolExecutor returning canned output.
type scriptedTool struct {
	mu      sync.Mutex
	calls   []tools.ExecuteOptions
	stdout  string
	exit    int
	missing bool
}

func (s *scriptedTool) Name() string           { return "scripted" }
func (s *scriptedTool) IsAvailable(string) bool { return !s.missing }

func (s *scriptedTool) Execute(_ context.Context, opts tools.ExecuteOptions) (*tools.ExecuteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.missing {
		return nil, fmt.Errorf("%w: %s", tools.ErrToolNotFound, opts.Tool)
	}
	s.calls = append(s.calls, opts)
	return &tools.ExecuteResult{ExitCode: s.exit, Stdout: []byte(s.stdout)}, nil
}

// swapExecutor routes non-dry-run tool calls to exec for the test.
func swapExecutor(t *testing.T, exec tools.ToolExecutor) {
	t.Helper()
	prev := newExecutor
	newExecutor = func(cmd *cobra.Command, dryRun bool) tools.ToolExecutor {
		if dryRun {
			return tools.NewDryRunExecutor(cmd.OutOrStdout())
		}
		return exec
	}
	t.Cleanup(func() { newExecutor = prev })
}
