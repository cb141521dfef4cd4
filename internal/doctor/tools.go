// Package doctor checks the external tools flutterkit drives.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/tools"
)

// DefaultProbeTimeout bounds each version probe. `flutter --version` can be
// slow on a cold SDK cache.
const DefaultProbeTimeout = 60 * time.Second

// Tool represents an external tool that doctor can check
type Tool struct {
	Name        string // display name, e.g., "flutter"
	Binary      string // executable, may be a configured override
	VersionArgs []string
	Required    bool
	Install     string // install hint shown when missing
}

// Status represents the result of a tool check
type Status struct {
	Name         string
	Present      bool
	Required     bool
	Version      string
	Instructions string
	Error        error
}

// KnownTools returns the tools used by flutterkit commands. flutter and
// quicktype may be overridden by configuration.
func KnownTools(flutter, quicktype string) []Tool {
	if flutter == "" {
		flutter = "flutter"
	}
	if quicktype == "" {
		quicktype = "quicktype"
	}
	return []Tool{
		{
			Name:        "flutter",
			Binary:      flutter,
			VersionArgs: []string{"--version"},
			Required:    true,
			Install:     "Install the Flutter SDK: https://docs.flutter.dev/get-started/install",
		},
		{
			Name:        "dart",
			Binary:      "dart",
			VersionArgs: []string{"--version"},
			Required:    true,
			Install:     "dart ships with the Flutter SDK; add <flutter>/bin to PATH",
		},
		{
			Name:        "quicktype",
			Binary:      quicktype,
			VersionArgs: []string{"--version"},
			Install:     "npm install -g quicktype",
		},
	}
}

// CheckTool probes a single tool by running its version command.
func CheckTool(ctx context.Context, exec tools.ToolExecutor, t Tool, timeout time.Duration) Status {
	st := Status{Name: t.Name, Required: t.Required}

	res, err := tools.Run(ctx, exec, tools.ExecuteOptions{Tool: t.Binary, Args: t.VersionArgs}, timeout)
	if err != nil {
		if errors.Is(err, tools.ErrToolNotFound) {
			st.Instructions = t.Install
			return st
		}
		// Present but misbehaving: report it rather than hiding the tool.
		st.Present = res != nil
		st.Error = err
		return st
	}

	st.Present = true
	out := strings.TrimSpace(string(res.Stdout))
	if out == "" {
		out = strings.TrimSpace(string(res.Stderr))
	}
	st.Version = sanitizeVersion(out)
	return st
}

// CheckAll probes all tools concurrently. Results keep the order of list.
func CheckAll(ctx context.Context, exec tools.ToolExecutor, list []Tool, timeout time.Duration) []Status {
	out := make([]Status, len(list))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range list {
		g.Go(func() error {
			out[i] = CheckTool(gctx, exec, t, timeout)
			logger.Debug("checked tool",
				logger.String("tool", t.Name),
				logger.Bool("present", out[i].Present),
				logger.String("version", out[i].Version))
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// MissingRequired returns the names of required tools that were not found.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, s := range statuses {
		if s.Required && !s.Present {
			missing = append(missing, s.Name)
		}
	}
	return missing
}

// Summary renders a one-line state for s.
func (s Status) Summary() string {
	switch {
	case s.Error != nil:
		return fmt.Sprintf("error: %v", s.Error)
	case !s.Present && s.Required:
		return "missing (required)"
	case !s.Present:
		return "missing (optional)"
	case s.Version == "":
		return "present"
	default:
		return s.Version
	}
}

func sanitizeVersion(s string) string {
	line := strings.TrimSpace(firstLine(s))
	// "Dart SDK version: 3.5.0 (stable) ..." and "quicktype version 23.0.170"
	line = strings.TrimPrefix(line, "Dart SDK version: ")
	line = strings.TrimPrefix(line, "quicktype version ")
	line = strings.TrimPrefix(line, "version ")
	line = strings.TrimPrefix(line, "Version ")
	// "Flutter 3.24.0 • channel stable • https://github.com/flutter/flutter.git"
	if i := strings.Index(line, " • "); i >= 0 {
		line = line[:i]
	}
	return line
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
