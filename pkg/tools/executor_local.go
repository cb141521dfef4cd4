/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package tools

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/fulmenhq/flutterkit/pkg/logger"
)

// LocalExecutor runs tools installed on the local system
type LocalExecutor struct {
	sdkDirs []string
}

// NewLocalExecutor creates a new LocalExecutor
func NewLocalExecutor() *LocalExecutor {
	return &LocalExecutor{
		sdkDirs: getSDKDirectories(),
	}
}

// Name returns the executor name
func (e *LocalExecutor) Name() string {
	return "local"
}

// IsAvailable checks if the tool is available locally
func (e *LocalExecutor) IsAvailable(tool string) bool {
	return e.FindToolPath(tool) != ""
}

// Execute runs the tool locally
func (e *LocalExecutor) Execute(ctx context.Context, opts ExecuteOptions) (*ExecuteResult, error) {
	toolPath := e.FindToolPath(opts.Tool)
	if toolPath == "" {
		return nil, fmt.Errorf("%w: %s is not in PATH or a known SDK directory", ErrToolNotFound, opts.Tool)
	}

	// #nosec G204 - toolPath is validated via FindToolPath
	cmd := exec.CommandContext(ctx, toolPath, opts.Args...)

	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}

	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	}

	cmd.Env = os.Environ()
	for k, v := range opts.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("running tool", logger.String("command", opts.CommandLine()), logger.String("dir", opts.WorkDir))
	err := cmd.Run()

	result := &ExecuteResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Executor: "local",
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			// Return result with exit code, not an error
			// The caller can check ExitCode to determine success/failure
			return result, nil
		}
		return nil, fmt.Errorf("failed to execute %s: %w", opts.Tool, err)
	}

	return result, nil
}

// FindToolPath finds a tool by name, checking PATH first then known SDK
// directories. Flutter installs managed by fvm or unpacked into ~/flutter are
// often missing from PATH in non-interactive shells.
func (e *LocalExecutor) FindToolPath(toolName string) string {
	if filepath.IsAbs(toolName) {
		if st, err := os.Stat(toolName); err == nil && !st.IsDir() {
			return toolName
		}
		return ""
	}

	if path, err := exec.LookPath(toolName); err == nil {
		return path
	}

	for _, dir := range e.sdkDirs {
		if dir == "" {
			continue
		}
		for _, candidate := range candidates(dir, toolName) {
			if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
				logger.Debug(fmt.Sprintf("found %s in %s", toolName, dir))
				return candidate
			}
		}
	}

	return ""
}

func candidates(dir, toolName string) []string {
	base := filepath.Join(dir, toolName)
	if runtime.GOOS == "windows" {
		return []string{base + ".exe", base + ".bat", base + ".cmd"}
	}
	return []string{base}
}

// getSDKDirectories returns directories where flutter, dart and quicktype
// are commonly installed outside PATH.
func getSDKDirectories() []string {
	var dirs []string

	if root := os.Getenv("FLUTTER_ROOT"); root != "" {
		dirs = append(dirs, filepath.Join(root, "bin"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return dirs
	}

	for _, dir := range []string{
		filepath.Join(homeDir, "fvm", "default", "bin"),
		filepath.Join(homeDir, "flutter", "bin"),
		filepath.Join(homeDir, "development", "flutter", "bin"),
		filepath.Join(homeDir, ".pub-cache", "bin"),
		filepath.Join(homeDir, ".npm-global", "bin"),
		filepath.Join(homeDir, ".bun", "bin"),
	} {
		if _, err := os.Stat(dir); err == nil {
			dirs = append(dirs, dir)
		}
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			npmDir := filepath.Join(appData, "npm")
			if _, err := os.Stat(npmDir); err == nil {
				dirs = append(dirs, npmDir)
			}
		}
	}

	return dirs
}
