/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/flutterkit/internal/ops"
	"github.com/fulmenhq/flutterkit/pkg/config"
	"github.com/fulmenhq/flutterkit/pkg/flavor"
	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/project"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var flavorCmd = &cobra.Command{
	Use:   "flavor",
	Short: "Manage flutter_flavorizr flavors",
}

var flavorInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write flavorizr.yaml with the dev, staging and prod flavors",
	Long: `Writes flavorizr.yaml for the platforms present in the project. When the file
already exists, only the missing default flavors are added.`,
	Args: cobra.NoArgs,
	RunE: runFlavorInit,
}

var flavorAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or replace a flavor in flavorizr.yaml",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlavorAdd,
}

var flavorBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run flutter_flavorizr",
	Args:  cobra.NoArgs,
	RunE:  runFlavorBuild,
}

func init() {
	flavorCmd.AddCommand(flavorInitCmd, flavorAddCmd, flavorBuildCmd)

	for _, c := range []*cobra.Command{flavorInitCmd, flavorAddCmd} {
		c.Flags().String("firebase", "auto", "Firebase config entries: auto (detect from pubspec.yaml), on or off")
	}
	flavorBuildCmd.Flags().Bool("dry-run", false, "Print the command instead of running it")

	if err := ops.RegisterCommand("flavor", ops.GroupWorkflow, flavorCmd, "Configure and build flavors"); err != nil {
		logger.Error("Failed to register flavor command", logger.Err(err))
	}
}

func flavorProject(cmd *cobra.Command, m *flavor.Manager, cfg *config.Config) (flavor.Project, error) {
	p := flavor.Project{
		Root:       cfg.Root,
		Manifest:   cfg.ManifestPath(),
		FlavorFile: cfg.FlavorPath(),
		Platforms:  project.Platforms(cfg.Root),
	}

	mode, _ := cmd.Flags().GetString("firebase")
	switch strings.ToLower(mode) {
	case "on", "true":
		p.Firebase = true
	case "off", "false":
	case "auto", "":
		detected, err := m.DetectFirebase(p.Manifest)
		if err != nil {
			return p, err
		}
		p.Firebase = detected
	default:
		return p, &configError{err: fmt.Errorf("invalid --firebase value %q (want auto, on or off)", mode)}
	}
	return p, nil
}

func runFlavorInit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProject(cmd)
	if err != nil {
		return err
	}
	m := flavor.NewManager(afero.NewOsFs())
	p, err := flavorProject(cmd, m, cfg)
	if err != nil {
		return err
	}

	res, err := m.Init(p)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch {
	case res.Created:
		fmt.Fprintf(out, "Created %s with flavors: %s\n", res.Path, strings.Join(res.Added, ", "))
	case len(res.Added) > 0:
		fmt.Fprintf(out, "Added flavors to %s: %s\n", res.Path, strings.Join(res.Added, ", "))
	default:
		fmt.Fprintf(out, "%s already has the default flavors\n", res.Path)
	}
	if len(p.Platforms) == 0 {
		logger.Warn("No platform directories found; flavors have no platform entries", logger.String("root", p.Root))
	}
	return nil
}

func runFlavorAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadProject(cmd)
	if err != nil {
		return err
	}
	m := flavor.NewManager(afero.NewOsFs())
	p, err := flavorProject(cmd, m, cfg)
	if err != nil {
		return err
	}

	res, err := m.Add(p, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added flavor %s to %s\n", args[0], res.Path)
	return nil
}

func runFlavorBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProject(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	res, err := flavor.Build(cmd.Context(), newExecutor(cmd, dryRun), cfg.Tools.Flutter, cfg.Root, cfg.Tools.Timeout)
	if res != nil {
		_, _ = cmd.OutOrStdout().Write(res.Stdout)
	}
	return err
}
