/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fulmenhq/flutterkit/internal/ops"
	"github.com/fulmenhq/flutterkit/pkg/deps"
	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/manifest"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Manage the standard Flutter package set",
}

var depsInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Add the standard packages with flutter pub add",
	Long: `Runs flutter pub add for the runtime packages, flutter pub add --dev for the
dev packages, then flutter pub get --no-example. Stops at the first failing step.`,
	Args: cobra.NoArgs,
	RunE: runDepsInstall,
}

var depsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the standard packages by category",
	Args:  cobra.NoArgs,
	RunE:  runDepsList,
}

func init() {
	depsCmd.AddCommand(depsInstallCmd, depsListCmd)

	depsInstallCmd.Flags().Bool("dry-run", false, "Print the flutter commands instead of running them")
	depsInstallCmd.Flags().Bool("skip-present", false, "Leave out packages pubspec.yaml already declares")

	if err := ops.RegisterCommand("deps", ops.GroupWorkflow, depsCmd, "Install the standard Flutter packages"); err != nil {
		logger.Error("Failed to register deps command", logger.Err(err))
	}
}

func runDepsInstall(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProject(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	skipPresent, _ := cmd.Flags().GetBool("skip-present")

	var existing *manifest.Pubspec
	if skipPresent {
		existing, err = manifest.ReadPubspec(afero.NewOsFs(), cfg.ManifestPath())
		if err != nil {
			return err
		}
	}

	steps := deps.Plan(deps.Catalog, existing)
	done, err := deps.NewInstaller(newExecutor(cmd, dryRun), cfg.Tools.Flutter, cfg.Tools.Timeout).
		Run(cmd.Context(), cfg.Root, steps)
	if err != nil {
		return fmt.Errorf("dependency installation failed after %d of %d steps: %w", done, len(steps), err)
	}
	if !dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "Dependencies installed successfully")
	}
	return nil
}

func runDepsList(cmd *cobra.Command, _ []string) error {
	byCategory := map[string][]string{}
	for _, p := range deps.Catalog {
		name := p.Name
		if p.Dev {
			name += " (dev)"
		}
		byCategory[p.Category] = append(byCategory[p.Category], name)
	}
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	out := cmd.OutOrStdout()
	for _, c := range categories {
		fmt.Fprintf(out, "%s:\n  %s\n", c, strings.Join(byCategory[c], "\n  "))
	}
	return nil
}
