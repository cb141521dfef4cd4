/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulmenhq/flutterkit/internal/app"
	"github.com/fulmenhq/flutterkit/internal/ops"
	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/tools"
	"github.com/spf13/cobra"
)

// newAppContext creates the session owner used by `assets watch`. Tests replace it.
var newAppContext = func() *app.Context { return app.New() }

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Keep pubspec.yaml flutter.assets in sync with the assets directory",
}

var assetsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rewrite flutter.assets from the current assets directory",
	Long: `Lists the immediate children of the assets directory and writes them to
flutter.assets in pubspec.yaml, directories with a trailing slash. The rest of
the manifest, comments included, is left as it was.`,
	Args: cobra.NoArgs,
	RunE: runAssetsSync,
}

var assetsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the assets directory and sync pubspec.yaml after changes settle",
	Long: `Watches the assets directory and rewrites flutter.assets once changes have
been quiet for the debounce window. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runAssetsWatch,
}

var assetsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run build_runner to regenerate typed asset paths",
	Args:  cobra.NoArgs,
	RunE:  runAssetsGenerate,
}

func init() {
	assetsCmd.AddCommand(assetsSyncCmd, assetsWatchCmd, assetsGenerateCmd)

	assetsWatchCmd.Flags().Duration("debounce", 0, "Quiet period before syncing (default from config, 3s)")
	assetsWatchCmd.Flags().Bool("initial", false, "Sync once before starting to watch")
	assetsGenerateCmd.Flags().Bool("dry-run", false, "Print the command instead of running it")

	if err := ops.RegisterCommand("assets", ops.GroupWorkflow, assetsCmd, "Sync, watch and generate Flutter assets"); err != nil {
		logger.Error("Failed to register assets command", logger.Err(err))
	}
}

func runAssetsSync(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProject(cmd)
	if err != nil {
		return err
	}

	res, err := newAppContext().Reconciler(cfg).Run(cmd.Context())
	if err != nil {
		return err
	}
	status := "unchanged"
	if res.Changed {
		status = "updated"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d assets)\n", res.Path, status, res.Assets)
	return nil
}

func runAssetsWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProject(cmd)
	if err != nil {
		return err
	}
	if d, _ := cmd.Flags().GetDuration("debounce"); d > 0 {
		cfg.Watch.Debounce = d
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	actx := newAppContext()
	defer func() {
		if err := actx.Close(); err != nil {
			logger.Warn("Failed to stop watcher", logger.Err(err))
		}
	}()

	if initial, _ := cmd.Flags().GetBool("initial"); initial {
		if _, err := actx.Reconciler(cfg).Run(ctx); err != nil {
			return err
		}
	}

	session, err := actx.StartWatcher(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	select {
	case <-ctx.Done():
	case <-session.Done():
	}
	logger.Info("Stopped watching assets")
	return nil
}

func runAssetsGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProject(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	res, err := tools.Run(cmd.Context(), newExecutor(cmd, dryRun), tools.ExecuteOptions{
		Tool:    cfg.Tools.Flutter,
		Args:    []string{"pub", "run", "build_runner", "build", "--delete-conflicting-outputs"},
		WorkDir: cfg.Root,
	}, cfg.Tools.Timeout)
	if res != nil {
		_, _ = cmd.OutOrStdout().Write(res.Stdout)
	}
	if err != nil {
		return err
	}
	logger.Info("Asset paths generated")
	return nil
}
