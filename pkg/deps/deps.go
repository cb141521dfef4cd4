// Package deps installs the standard set of Flutter packages into a project.
package deps

import (
	"context"
	"fmt"
	"time"

	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/manifest"
	"github.com/fulmenhq/flutterkit/pkg/tools"
)

// Package is a pub package in the catalog.
type Package struct {
	Name     string
	Dev      bool
	Category string
}

// Catalog is the fixed package set, in install order.
var Catalog = []Package{
	{Name: "equatable", Category: "core"},

	{Name: "hooks_riverpod", Category: "state"},
	{Name: "riverpod_generator", Dev: true, Category: "state"},
	{Name: "flutter_hooks", Category: "state"},
	{Name: "riverpod_annotation", Category: "state"},
	{Name: "custom_lint", Dev: true, Category: "state"},
	{Name: "riverpod_lint", Dev: true, Category: "state"},

	{Name: "dio", Category: "network"},
	{Name: "retrofit", Category: "network"},
	{Name: "retrofit_generator", Dev: true, Category: "network"},

	{Name: "json_annotation", Category: "serialization"},
	{Name: "json_serializable", Dev: true, Category: "serialization"},
	{Name: "freezed", Dev: true, Category: "serialization"},
	{Name: "freezed_annotation", Category: "serialization"},

	{Name: "shared_preferences", Category: "storage"},

	{Name: "recase", Category: "utils"},
	{Name: "fpdart", Category: "utils"},
	{Name: "fast_immutable_collections", Category: "utils"},
	{Name: "envied", Category: "utils"},
	{Name: "logger", Category: "utils"},
	{Name: "path_provider", Category: "utils"},
	{Name: "bot_toast", Category: "utils"},
	{Name: "collection", Category: "utils"},
	{Name: "dropdown_search", Category: "utils"},
	{Name: "file_picker", Category: "utils"},
	{Name: "flutter_animate", Category: "utils"},
	{Name: "rxdart", Category: "utils"},
	{Name: "settings_ui", Category: "utils"},
	{Name: "url_launcher", Category: "utils"},
	{Name: "intl", Category: "utils"},
	{Name: "get_it", Category: "utils"},
	{Name: "injectable", Category: "utils"},
	{Name: "injectable_generator", Dev: true, Category: "utils"},

	{Name: "google_fonts", Category: "ui"},
	{Name: "flutter_gen_runner", Dev: true, Category: "ui"},

	{Name: "mocktail", Category: "testing"},

	{Name: "auto_route", Category: "navigation"},
	{Name: "auto_route_generator", Dev: true, Category: "navigation"},

	{Name: "build_runner", Dev: true, Category: "codegen"},
	{Name: "flutter_flavorizr", Dev: true, Category: "codegen"},
}

// Step is one flutter invocation of the install sequence.
type Step struct {
	Description string
	Args        []string
}

// Plan builds the install sequence: runtime packages, dev packages, then
// `pub get --no-example`. When existing is non-nil, packages it already
// declares are left out and empty add steps are dropped.
func Plan(catalog []Package, existing *manifest.Pubspec) []Step {
	runtime := []string{}
	dev := []string{}
	for _, p := range catalog {
		if existing != nil && declared(existing, p) {
			continue
		}
		if p.Dev {
			dev = append(dev, p.Name)
		} else {
			runtime = append(runtime, p.Name)
		}
	}

	var steps []Step
	if len(runtime) > 0 {
		steps = append(steps, Step{
			Description: fmt.Sprintf("add %d runtime packages", len(runtime)),
			Args:        append([]string{"pub", "add"}, runtime...),
		})
	}
	if len(dev) > 0 {
		steps = append(steps, Step{
			Description: fmt.Sprintf("add %d dev packages", len(dev)),
			Args:        append([]string{"pub", "add", "--dev"}, dev...),
		})
	}
	steps = append(steps, Step{
		Description: "fetch packages",
		Args:        []string{"pub", "get", "--no-example"},
	})
	return steps
}

func declared(p *manifest.Pubspec, pkg Package) bool {
	if _, ok := p.Dependencies[pkg.Name]; ok {
		return true
	}
	_, ok := p.DevDependencies[pkg.Name]
	return ok
}

// Installer runs a plan with the flutter executable.
type Installer struct {
	exec    tools.ToolExecutor
	flutter string
	timeout time.Duration
}

// NewInstaller creates an Installer.
func NewInstaller(exec tools.ToolExecutor, flutter string, timeout time.Duration) *Installer {
	if flutter == "" {
		flutter = "flutter"
	}
	return &Installer{exec: exec, flutter: flutter, timeout: timeout}
}

// Run executes steps in order inside root and stops at the first failure.
// The returned count is the number of steps that completed.
func (i *Installer) Run(ctx context.Context, root string, steps []Step) (int, error) {
	for n, step := range steps {
		logger.Info("Installing dependencies", logger.String("step", step.Description))
		opts := tools.ExecuteOptions{Tool: i.flutter, Args: step.Args, WorkDir: root}
		if _, err := tools.Run(ctx, i.exec, opts, i.timeout); err != nil {
			return n, fmt.Errorf("%s: %w", step.Description, err)
		}
	}
	return len(steps), nil
}
