/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/fulmenhq/flutterkit/internal/ops"
	"github.com/fulmenhq/flutterkit/pkg/buildinfo"
	"github.com/fulmenhq/flutterkit/pkg/exitcode"
	"github.com/fulmenhq/flutterkit/pkg/flavor"
	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/manifest"
	"github.com/fulmenhq/flutterkit/pkg/model"
	"github.com/fulmenhq/flutterkit/pkg/project"
	"github.com/fulmenhq/flutterkit/pkg/scaffold"
	"github.com/fulmenhq/flutterkit/pkg/tools"
	"github.com/spf13/cobra"
)

var groupTitles = map[ops.CommandGroup]string{
	ops.GroupScaffold: "Scaffolding Commands:",
	ops.GroupWorkflow: "Workflow Commands:",
	ops.GroupSupport:  "Support Commands:",
}

// newRootCommand creates a fresh root command instance.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flutterkit",
		Short: "Productivity tooling for Flutter projects",
		Long: `Flutterkit keeps pubspec.yaml assets in sync, scaffolds pages, classes and
providers, generates models from JSON and manages flutter_flavorizr flavors.

Examples:
   flutterkit assets watch         # Keep flutter.assets in sync while you work
   flutterkit create page Profile  # Scaffold lib/profile.dart
   flutterkit model User -i u.json # Generate a freezed model with quicktype
   flutterkit flavor init          # Write flavorizr.yaml with dev/staging/prod`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().StringP("project", "C", "", "Flutter project directory (default: nearest pubspec.yaml above the working directory)")

	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("flutterkit {{.Version}}\n")

	cmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if cmd.HasParent() {
			if cmd.Long != "" {
				cmd.Println(cmd.Long)
			} else {
				cmd.Println(cmd.Short)
			}
			cmd.Println()
			cmd.Print(cmd.UsageString())
			return
		}
		reg := ops.GetRegistry()
		cmd.Println(cmd.Long)
		cmd.Println()
		for _, g := range ops.Groups {
			cmd.Println(groupTitles[g])
			for _, c := range reg.GetCommandsByGroup(g) {
				cmd.Printf("  %-12s %s\n", c.Name, c.Description)
			}
			cmd.Println()
		}
		cmd.Println("Flags:")
		cmd.Print(cmd.UsageString())
	})

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(assetsCmd)
	cmd.AddCommand(createCmd)
	cmd.AddCommand(modelCmd)
	cmd.AddCommand(depsCmd)
	cmd.AddCommand(flavorCmd)
	cmd.AddCommand(doctorCmd)
	cmd.AddCommand(versionCmd)
}

// coreCommands is the expected registry content, checked by tests.
var coreCommands = map[string]ops.CommandGroup{
	"assets":  ops.GroupWorkflow,
	"create":  ops.GroupScaffold,
	"model":   ops.GroupScaffold,
	"deps":    ops.GroupWorkflow,
	"flavor":  ops.GroupWorkflow,
	"doctor":  ops.GroupSupport,
	"version": ops.GroupSupport,
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command and exits with a code describing the failure.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "flutterkit",
	}

	if err := logger.Initialize(config); err != nil {
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
}

// configError marks failures loading .flutterkit.yaml.
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// exitCodeFor maps command errors to process exit codes.
func exitCodeFor(err error) int {
	var cfgErr *configError
	var exitErr *tools.ExitError
	switch {
	case err == nil:
		return exitcode.Success
	case errors.As(err, &cfgErr):
		return exitcode.ConfigError
	case errors.Is(err, context.DeadlineExceeded):
		return exitcode.TimeoutError
	case errors.Is(err, project.ErrNotFlutterProject):
		return exitcode.ProjectNotFound
	case errors.Is(err, tools.ErrToolNotFound):
		return exitcode.ToolNotFound
	case errors.As(err, &exitErr):
		return exitcode.ToolFailed
	case errors.Is(err, scaffold.ErrInvalidName),
		errors.Is(err, scaffold.ErrUnknownKind),
		errors.Is(err, model.ErrInvalidSample),
		errors.Is(err, model.ErrUnknownStyle),
		errors.Is(err, flavor.ErrInvalidFlavorName),
		errors.Is(err, flavor.ErrInvalidFlavorFile):
		return exitcode.ValidationError
	case errors.Is(err, manifest.ErrManifestMissing),
		errors.Is(err, manifest.ErrSectionUnavailable),
		errors.Is(err, scaffold.ErrFileExists),
		errors.Is(err, flavor.ErrFlavorFileMissing),
		errors.Is(err, os.ErrNotExist),
		errors.Is(err, os.ErrPermission):
		return exitcode.FileSystemError
	default:
		return exitcode.GeneralError
	}
}
