// Package assetsync connects the asset snapshot to the manifest patcher and
// reports the outcome of each pass.
package assetsync

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/fulmenhq/flutterkit/pkg/assets"
	"github.com/fulmenhq/flutterkit/pkg/config"
	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/manifest"
)

// Notifier receives the outcome of each reconciliation pass.
type Notifier interface {
	Synced(res *manifest.Result)
	Failed(err error)
}

// LogNotifier reports outcomes through the structured logger.
type LogNotifier struct{}

func (LogNotifier) Synced(res *manifest.Result) {
	logger.Info("Assets updated in pubspec.yaml",
		logger.Int("assets", res.Assets),
		logger.Bool("changed", res.Changed),
		logger.String("path", res.Path))
}

func (LogNotifier) Failed(err error) {
	logger.Error("Failed to update assets in pubspec.yaml", logger.Err(err))
}

// Reconciler runs one snapshot-then-patch pass per call.
type Reconciler struct {
	snapshotter  *assets.Snapshotter
	patcher      *manifest.Patcher
	assetsDir    string
	manifestPath string
	notifier     Notifier
}

// New builds a Reconciler for the project described by cfg. A nil notifier
// falls back to LogNotifier.
func New(fs afero.Fs, cfg *config.Config, n Notifier) *Reconciler {
	if n == nil {
		n = LogNotifier{}
	}
	return &Reconciler{
		snapshotter:  assets.NewSnapshotter(fs, cfg.AssetPrefix(), cfg.Assets.Exclude),
		patcher:      manifest.NewPatcher(fs),
		assetsDir:    cfg.AssetsPath(),
		manifestPath: cfg.ManifestPath(),
		notifier:     n,
	}
}

// Run snapshots the assets directory and writes the result into the
// manifest. Failures are reported to the notifier and returned; nothing is
// retried and the manifest is left as it was.
func (r *Reconciler) Run(ctx context.Context) (*manifest.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	list := r.snapshotter.Snapshot(r.assetsDir)
	logger.Debug("asset snapshot", logger.String("dir", r.assetsDir), logger.Int("entries", len(list)))

	res, err := r.patcher.Patch(r.manifestPath, list)
	if err != nil {
		err = fmt.Errorf("reconcile %s: %w", r.manifestPath, err)
		r.notifier.Failed(err)
		return nil, err
	}
	r.notifier.Synced(res)
	return res, nil
}

// Reconcile adapts Run to the watch session callback signature.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	_, err := r.Run(ctx)
	return err
}
