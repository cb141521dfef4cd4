/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package tools

import (
	"context"
	"io"
	"os"
	"strings"
)

// ExecutionMode determines how tools are executed
type ExecutionMode string

const (
	// ModeLocal runs tools found on PATH or in known SDK directories
	ModeLocal ExecutionMode = "local"
	// ModeDryRun prints the command lines without running anything
	ModeDryRun ExecutionMode = "dry-run"
)

// ModeEnvVar selects the execution mode when none is given explicitly.
const ModeEnvVar = "FLUTTERKIT_TOOL_MODE"

// ExecuteOptions configures tool execution
type ExecuteOptions struct {
	// Tool name (e.g., "flutter", "quicktype")
	Tool string

	// Args to pass to the tool
	Args []string

	// WorkDir is the working directory (defaults to current directory)
	WorkDir string

	// Stdin to pipe to the tool (optional)
	Stdin io.Reader

	// Env contains additional environment variables
	Env map[string]string
}

// CommandLine renders the invocation for display.
func (o ExecuteOptions) CommandLine() string {
	return strings.Join(append([]string{o.Tool}, o.Args...), " ")
}

// ExecuteResult contains the output of tool execution
type ExecuteResult struct {
	// ExitCode from the tool
	ExitCode int

	// Stdout contains standard output
	Stdout []byte

	// Stderr contains standard error
	Stderr []byte

	// Executor indicates which executor was used ("local" or "dry-run")
	Executor string
}

// ToolExecutor executes external tools
type ToolExecutor interface {
	// Execute runs a tool with the given options
	Execute(ctx context.Context, opts ExecuteOptions) (*ExecuteResult, error)

	// IsAvailable checks if this executor can run the specified tool
	IsAvailable(tool string) bool

	// Name returns the executor name for logging
	Name() string
}

// NewExecutor creates a ToolExecutor based on the specified mode
// If mode is empty, it reads from FLUTTERKIT_TOOL_MODE environment variable
func NewExecutor(mode ExecutionMode) ToolExecutor {
	if mode == "" {
		mode = getModeFromEnv()
	}

	switch mode {
	case ModeDryRun:
		return NewDryRunExecutor(os.Stdout)
	case ModeLocal:
		fallthrough
	default:
		return NewLocalExecutor()
	}
}

// getModeFromEnv reads execution mode from environment
func getModeFromEnv() ExecutionMode {
	mode := os.Getenv(ModeEnvVar)
	switch strings.ToLower(mode) {
	case "dry-run", "dryrun":
		return ModeDryRun
	default:
		return ModeLocal
	}
}
