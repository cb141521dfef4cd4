/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fulmenhq/flutterkit/internal/doctor"
	"github.com/fulmenhq/flutterkit/internal/ops"
	"github.com/fulmenhq/flutterkit/pkg/ascii"
	"github.com/fulmenhq/flutterkit/pkg/config"
	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/project"
	"github.com/fulmenhq/flutterkit/pkg/safeio"
	"github.com/fulmenhq/flutterkit/pkg/tools"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the Flutter toolchain and the current project",
	Long: `Reports whether flutter, dart and quicktype can be found and which versions
they are, and summarizes the Flutter project in the working directory.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().Bool("strict", false, "Fail when a required tool is missing")
	doctorCmd.Flags().Duration("timeout", doctor.DefaultProbeTimeout, "Timeout for each version probe")

	if err := ops.RegisterCommand("doctor", ops.GroupSupport, doctorCmd, "Diagnose the toolchain and project"); err != nil {
		logger.Error("Failed to register doctor command", logger.Err(err))
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	strict, _ := cmd.Flags().GetBool("strict")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg, err := loadProject(cmd)
	switch {
	case errors.Is(err, project.ErrNotFlutterProject):
		cfg = nil
	case err != nil:
		return err
	}

	flutter, quicktype := "", ""
	if cfg != nil {
		flutter, quicktype = cfg.Tools.Flutter, cfg.Tools.Quicktype
	}

	statuses := doctor.CheckAll(cmd.Context(), newExecutor(cmd, false), doctor.KnownTools(flutter, quicktype), timeout)

	rows := [][2]string{}
	for _, s := range statuses {
		rows = append(rows, [2]string{s.Name, ascii.TruncateForBox(s.Summary(), 60)})
	}
	lines := append([]string{"Toolchain", ""}, ascii.Columns(rows)...)
	lines = append(lines, "", "Project", "")
	lines = append(lines, ascii.Columns(projectRows(cfg))...)

	out := cmd.OutOrStdout()
	ascii.DrawBox(out, lines)
	for _, s := range statuses {
		if !s.Present && s.Instructions != "" {
			fmt.Fprintf(out, "%s: %s\n", s.Name, s.Instructions)
		}
	}

	if missing := doctor.MissingRequired(statuses); len(missing) > 0 && strict {
		return fmt.Errorf("%w: %s", tools.ErrToolNotFound, strings.Join(missing, ", "))
	}
	return nil
}

func projectRows(cfg *config.Config) [][2]string {
	if cfg == nil {
		return [][2]string{{"root", "no pubspec.yaml found"}}
	}
	fs := afero.NewOsFs()
	platforms := project.Platforms(cfg.Root)
	platformText := "none"
	if len(platforms) > 0 {
		platformText = strings.Join(platforms, ", ")
	}
	configText := "defaults"
	if cfg.File != "" {
		configText = cfg.File
	}
	return [][2]string{
		{"root", ascii.TruncateForBox(cfg.Root, 60)},
		{"config", ascii.TruncateForBox(configText, 60)},
		{"platforms", platformText},
		{"assets", presence(fs, cfg.AssetsPath())},
		{"flavors", presence(fs, cfg.FlavorPath())},
	}
}

func presence(fs afero.Fs, path string) string {
	if safeio.Exists(fs, path) {
		return "present"
	}
	return "missing"
}
