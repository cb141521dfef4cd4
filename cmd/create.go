/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/flutterkit/internal/ops"
	"github.com/fulmenhq/flutterkit/pkg/config"
	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/scaffold"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Scaffold Dart source files",
}

var createPageCmd = &cobra.Command{
	Use:   "page <Name>",
	Short: "Create a widget page",
	Long: fmt.Sprintf(`Creates <snake_name>.dart with a widget page named <Name>.

Templates: %s`, strings.Join(scaffold.PageTemplates(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: runCreatePage,
}

var createClassCmd = &cobra.Command{
	Use:   "class <Name>",
	Short: "Create an empty class declaration",
	Long: fmt.Sprintf(`Creates <snake_name>.dart declaring <Name>.

Kinds: %s`, strings.Join(scaffold.ClassKinds(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: runCreateClass,
}

var createProviderCmd = &cobra.Command{
	Use:   "provider <Name>",
	Short: "Create a riverpod provider",
	Long: fmt.Sprintf(`Creates <snake_name>.dart with a riverpod_annotation provider.

Kinds: %s`, strings.Join(scaffold.ProviderKinds(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: runCreateProvider,
}

func init() {
	createCmd.AddCommand(createPageCmd, createClassCmd, createProviderCmd)

	for _, c := range []*cobra.Command{createPageCmd, createClassCmd, createProviderCmd} {
		c.Flags().StringP("dir", "d", "", "Output directory (default: scaffold.class_dir in the project)")
		c.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	}
	createPageCmd.Flags().StringP("template", "t", "", "Page template (default: scaffold.page_template)")
	createClassCmd.Flags().StringP("kind", "k", "class", "Class kind")
	createProviderCmd.Flags().StringP("kind", "k", "function", "Provider kind")

	if err := ops.RegisterCommand("create", ops.GroupScaffold, createCmd, "Scaffold pages, classes and providers"); err != nil {
		logger.Error("Failed to register create command", logger.Err(err))
	}
}

func runCreatePage(cmd *cobra.Command, args []string) error {
	return createFile(cmd, func(cfg *config.Config) (*scaffold.File, error) {
		template, _ := cmd.Flags().GetString("template")
		if template == "" {
			template = cfg.Scaffold.PageTemplate
		}
		return scaffold.Page(args[0], template)
	})
}

func runCreateClass(cmd *cobra.Command, args []string) error {
	return createFile(cmd, func(*config.Config) (*scaffold.File, error) {
		kind, _ := cmd.Flags().GetString("kind")
		return scaffold.Class(args[0], kind)
	})
}

func runCreateProvider(cmd *cobra.Command, args []string) error {
	return createFile(cmd, func(*config.Config) (*scaffold.File, error) {
		kind, _ := cmd.Flags().GetString("kind")
		return scaffold.Provider(args[0], kind)
	})
}

// createFile renders a file and writes it to the --dir target.
func createFile(cmd *cobra.Command, render func(*config.Config) (*scaffold.File, error)) error {
	cfg, err := loadProject(cmd)
	if err != nil {
		return err
	}
	f, err := render(cfg)
	if err != nil {
		return err
	}
	return writeScaffold(cmd, cfg, f)
}

func writeScaffold(cmd *cobra.Command, cfg *config.Config, f *scaffold.File) error {
	dirFlag, _ := cmd.Flags().GetString("dir")
	force, _ := cmd.Flags().GetBool("force")

	dir, err := targetDir(cfg, dirFlag, cfg.Scaffold.ClassDir)
	if err != nil {
		return err
	}
	path, err := scaffold.NewWriter(afero.NewOsFs()).Write(dir, f, force)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
