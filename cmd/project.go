/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"os"
	"path/filepath"

	"github.com/fulmenhq/flutterkit/pkg/config"
	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/project"
	"github.com/fulmenhq/flutterkit/pkg/tools"
	"github.com/spf13/cobra"
)

// newExecutor builds the tool executor for a command. Tests replace it.
var newExecutor = func(cmd *cobra.Command, dryRun bool) tools.ToolExecutor {
	if dryRun {
		return tools.NewDryRunExecutor(cmd.OutOrStdout())
	}
	return tools.NewExecutor("")
}

// loadProject finds the Flutter project for cmd and loads its configuration.
// A directory with a .flutterkit.yaml counts as a project even when its
// manifest is renamed through project.manifest; commands then report a
// missing manifest themselves.
func loadProject(cmd *cobra.Command) (*config.Config, error) {
	start, _ := cmd.Flags().GetString("project")
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		start = wd
	}

	root, err := project.FindWith(start, config.FileNames...)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, &configError{err: err}
	}
	logger.Debug("resolved project", logger.String("root", cfg.Root), logger.String("config", cfg.File))
	return cfg, nil
}

// targetDir resolves a --dir flag value. Relative values are taken from the
// working directory; an empty value falls back to def inside the project.
func targetDir(cfg *config.Config, flagValue, def string) (string, error) {
	if flagValue == "" {
		if filepath.IsAbs(def) {
			return def, nil
		}
		return filepath.Join(cfg.Root, def), nil
	}
	return filepath.Abs(flagValue)
}
