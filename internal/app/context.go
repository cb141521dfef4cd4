// Package app holds the long-lived state shared by commands, chiefly the
// single asset watch session.
package app

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/fulmenhq/flutterkit/internal/assetsync"
	"github.com/fulmenhq/flutterkit/pkg/config"
	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/watch"
)

// StartFunc opens a watch session. It is swapped in tests.
type StartFunc func(ctx context.Context, opts watch.Options) (*watch.Session, error)

// Context owns at most one active watch session.
type Context struct {
	fs       afero.Fs
	notifier assetsync.Notifier
	start    StartFunc

	mu      sync.Mutex
	session *watch.Session
}

// Option customizes a Context.
type Option func(*Context)

// WithFs sets the filesystem used for snapshots and manifest writes.
func WithFs(fs afero.Fs) Option {
	return func(c *Context) { c.fs = fs }
}

// WithNotifier sets the reconciliation notifier.
func WithNotifier(n assetsync.Notifier) Option {
	return func(c *Context) { c.notifier = n }
}

// WithStarter replaces how sessions are opened.
func WithStarter(fn StartFunc) Option {
	return func(c *Context) { c.start = fn }
}

// New returns an empty Context.
func New(opts ...Option) *Context {
	c := &Context{
		fs:       afero.NewOsFs(),
		notifier: assetsync.LogNotifier{},
		start:    watch.Start,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reconciler builds the reconciliation driver for cfg.
func (c *Context) Reconciler(cfg *config.Config) *assetsync.Reconciler {
	return assetsync.New(c.fs, cfg, c.notifier)
}

// StartWatcher tears down any existing session and starts a new one for cfg.
func (c *Context) StartWatcher(ctx context.Context, cfg *config.Config) (*watch.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		if err := c.session.Stop(); err != nil {
			logger.Warn("Failed to stop previous watcher", logger.Err(err))
		}
		c.session = nil
	}

	r := c.Reconciler(cfg)
	pattern := cfg.WatchPattern()
	root := cfg.Root
	if filepath.IsAbs(filepath.FromSlash(pattern)) {
		root = ""
	}
	s, err := c.start(ctx, watch.Options{
		Root:      root,
		Dir:       cfg.AssetsPath(),
		Patterns:  watch.PatternsFor(pattern),
		Debounce:  cfg.Watch.Debounce,
		Reconcile: r.Reconcile,
	})
	if err != nil {
		return nil, err
	}
	c.session = s
	return s, nil
}

// StopWatcher stops the active session, if any. Calling it with no active
// session is a no-op.
func (c *Context) StopWatcher() error {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()

	if s == nil {
		return nil
	}
	return s.Stop()
}

// Active returns the current session or nil.
func (c *Context) Active() *watch.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Close releases everything the Context owns.
func (c *Context) Close() error {
	return c.StopWatcher()
}
