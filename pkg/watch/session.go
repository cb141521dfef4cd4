// Package watch turns filesystem activity under a directory tree into
// debounced reconciliation passes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/fulmenhq/flutterkit/pkg/logger"
)

// DefaultDebounce is the quiet period used when Options.Debounce is unset.
const DefaultDebounce = 3 * time.Second

// State is the lifecycle state of a Session.
type State int

const (
	Idle State = iota
	Watching
	PendingReconcile
	Reconciling
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Watching:
		return "watching"
	case PendingReconcile:
		return "pending"
	case Reconciling:
		return "reconciling"
	default:
		return "unknown"
	}
}

// ReconcileFunc is invoked once per debounced burst of events.
type ReconcileFunc func(ctx context.Context) error

// Options configures a Session.
type Options struct {
	// Root is the project root. Patterns are matched against paths relative to it.
	Root string
	// Dir is the subtree to subscribe to, usually <Root>/assets. It may not exist yet.
	Dir string
	// Patterns are doublestar globs; an event is relevant when any matches.
	Patterns []string
	// Debounce is the quiet period before a reconciliation fires.
	Debounce time.Duration
	// Reconcile runs on the session goroutine, one call at a time.
	Reconcile ReconcileFunc
}

// Source is the event subscription a Session consumes.
type Source interface {
	Events() <-chan fsnotify.Event
	Errors() <-chan error
	Add(path string) error
	Close() error
}

type fsSource struct {
	w *fsnotify.Watcher
}

func (f *fsSource) Events() <-chan fsnotify.Event { return f.w.Events }
func (f *fsSource) Errors() <-chan error          { return f.w.Errors }
func (f *fsSource) Add(path string) error         { return f.w.Add(path) }
func (f *fsSource) Close() error                  { return f.w.Close() }

// Session owns one filesystem subscription and at most one pending debounce
// timer. All state transitions happen on the session goroutine.
type Session struct {
	opts Options
	src  Source

	mu    sync.Mutex
	state State

	cancel   context.CancelFunc
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Start subscribes to opts.Root (non-recursively) and the opts.Dir tree, then
// begins processing events.
func Start(ctx context.Context, opts Options) (*Session, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	s, err := StartWithSource(ctx, opts, &fsSource{w: w})
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	return s, nil
}

// StartWithSource is Start with a caller-provided subscription.
func StartWithSource(ctx context.Context, opts Options, src Source) (*Session, error) {
	if opts.Reconcile == nil {
		return nil, errors.New("watch: Reconcile is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	s := &Session{
		opts: opts,
		src:  src,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	if opts.Root != "" {
		if err := src.Add(opts.Root); err != nil {
			return nil, fmt.Errorf("failed to watch %s: %w", opts.Root, err)
		}
	}
	if err := s.addTree(opts.Dir); err != nil {
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.setState(Watching)
	go s.run(loopCtx)

	logger.Info("Watching assets",
		logger.String("dir", opts.Dir),
		logger.Strings("patterns", opts.Patterns),
		logger.Duration("debounce", opts.Debounce))
	return s, nil
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed once the session goroutine has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Stop cancels any pending timer, releases the subscription and waits for
// the session goroutine to exit. No reconciliation starts after Stop returns.
// Stop is safe to call more than once.
func (s *Session) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.stop)
		s.cancel()
		<-s.done
		err = s.src.Close()
		s.setState(Idle)
		logger.Info("Stopped watching assets", logger.String("dir", s.opts.Dir))
	})
	return err
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Session) stopped() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	cancelTimer := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
			fire = nil
		}
	}
	defer cancelTimer()

	events := s.src.Events()
	errs := s.src.Errors()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if !s.relevant(event) {
				continue
			}
			logger.Trace("asset event", logger.String("event", event.String()))
			s.track(event)

			cancelTimer()
			timer = time.NewTimer(s.opts.Debounce)
			fire = timer.C
			s.setState(PendingReconcile)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("Watcher received an error", logger.Err(err))

		case <-fire:
			timer = nil
			fire = nil
			if s.stopped() {
				return
			}
			s.setState(Reconciling)
			if err := s.opts.Reconcile(ctx); err != nil {
				logger.Debug("reconciliation pass failed", logger.Err(err))
			}
			s.setState(Watching)
		}
	}
}

// relevant reports whether event is a create, write, remove or rename of a
// path matching one of the session patterns.
func (s *Session) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if len(s.opts.Patterns) == 0 {
		return true
	}
	rel := event.Name
	if s.opts.Root != "" {
		r, err := filepath.Rel(s.opts.Root, event.Name)
		if err != nil {
			return false
		}
		rel = r
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "../") {
		return false
	}
	for _, pattern := range s.opts.Patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// track extends the subscription to directories created under the watched
// tree, since fsnotify watches are not recursive.
func (s *Session) track(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}
	st, err := os.Stat(event.Name)
	if err != nil || !st.IsDir() {
		return
	}
	if err := s.addTree(event.Name); err != nil {
		logger.Warn("Failed to watch new directory", logger.String("dir", event.Name), logger.Err(err))
	}
}

func (s *Session) addTree(dir string) error {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := s.src.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// PatternsFor expands a configured glob such as "assets/**" into the set
// used for matching, adding the bare directory so that creating or removing
// the directory itself counts as a change.
func PatternsFor(pattern string) []string {
	pattern = filepath.ToSlash(pattern)
	patterns := []string{pattern}
	if base := strings.TrimSuffix(pattern, "/**"); base != pattern && base != "" {
		patterns = append(patterns, base)
	}
	return patterns
}
