/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fulmenhq/flutterkit/internal/ops"
	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/model"
	"github.com/fulmenhq/flutterkit/pkg/safeio"
	"github.com/spf13/cobra"
)

var modelCmd = &cobra.Command{
	Use:   "model <Name>",
	Short: "Generate a Dart model class from a JSON sample",
	Long: fmt.Sprintf(`Runs quicktype on a JSON sample and writes <snake_name>.dart.

The sample is read from --input, or from stdin when --input is "-" or omitted.

Styles: %s`, strings.Join(model.Styles(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: runModel,
}

func init() {
	modelCmd.Flags().StringP("input", "i", "-", "JSON sample file, - for stdin")
	modelCmd.Flags().StringP("style", "s", string(model.StyleFreezed), "Model style")
	modelCmd.Flags().StringP("dir", "d", "", "Output directory (default: scaffold.class_dir in the project)")
	modelCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	modelCmd.Flags().Bool("dry-run", false, "Print the quicktype command instead of running it")

	if err := ops.RegisterCommand("model", ops.GroupScaffold, modelCmd, "Generate models from JSON with quicktype"); err != nil {
		logger.Error("Failed to register model command", logger.Err(err))
	}
}

func runModel(cmd *cobra.Command, args []string) error {
	styleFlag, _ := cmd.Flags().GetString("style")
	style, err := model.ParseStyle(styleFlag)
	if err != nil {
		return err
	}

	cfg, err := loadProject(cmd)
	if err != nil {
		return err
	}

	input, _ := cmd.Flags().GetString("input")
	sample, err := readSample(cmd, input)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	gen := model.NewGenerator(newExecutor(cmd, dryRun), cfg.Tools.Quicktype, cfg.Tools.Timeout)
	f, err := gen.Generate(cmd.Context(), args[0], style, sample)
	if err != nil {
		return err
	}
	if dryRun {
		return nil
	}
	return writeScaffold(cmd, cfg, f)
}

func readSample(cmd *cobra.Command, input string) ([]byte, error) {
	if input == "" || input == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	path, err := safeio.ResolveUserPath(input)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample: %w", err)
	}
	return data, nil
}
