/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package tools

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// DryRunExecutor prints each command line instead of running it and always
// reports success.
type DryRunExecutor struct {
	out io.Writer

	mu    sync.Mutex
	calls []ExecuteOptions
}

// NewDryRunExecutor creates a DryRunExecutor writing to out
func NewDryRunExecutor(out io.Writer) *DryRunExecutor {
	return &DryRunExecutor{out: out}
}

// Name returns the executor name
func (e *DryRunExecutor) Name() string {
	return "dry-run"
}

// IsAvailable always reports true; nothing is executed
func (e *DryRunExecutor) IsAvailable(string) bool {
	return true
}

// Execute records and prints the invocation
func (e *DryRunExecutor) Execute(_ context.Context, opts ExecuteOptions) (*ExecuteResult, error) {
	e.mu.Lock()
	e.calls = append(e.calls, opts)
	e.mu.Unlock()

	if e.out != nil {
		if opts.WorkDir != "" {
			_, _ = fmt.Fprintf(e.out, "+ (cd %s) %s\n", opts.WorkDir, opts.CommandLine())
		} else {
			_, _ = fmt.Fprintf(e.out, "+ %s\n", opts.CommandLine())
		}
	}
	return &ExecuteResult{Executor: e.Name()}, nil
}

// Calls returns the recorded invocations in order
func (e *DryRunExecutor) Calls() []ExecuteOptions {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ExecuteOptions(nil), e.calls...)
}
