package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrToolNotFound is returned when an executable cannot be located.
var ErrToolNotFound = errors.New("tool not found")

// ExitError reports a tool that ran but exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Run executes opts with an optional timeout and treats a non-zero exit as
// an error. The result is returned in both cases so callers can show output.
func Run(ctx context.Context, exec ToolExecutor, opts ExecuteOptions, timeout time.Duration) (*ExecuteResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := exec.Execute(ctx, opts)
	if err != nil {
		return nil, err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return res, fmt.Errorf("%s timed out after %s: %w", opts.CommandLine(), timeout, ctx.Err())
	}
	if res.ExitCode != 0 {
		return res, &ExitError{Command: opts.CommandLine(), Code: res.ExitCode, Stderr: string(res.Stderr)}
	}
	return res, nil
}
