package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 60 * time.Millisecond

type fakeSource struct {
	events chan fsnotify.Event
	errs   chan error

	mu     sync.Mutex
	added  []string
	closed bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		events: make(chan fsnotify.Event, 64),
		errs:   make(chan error, 4),
	}
}

func (f *fakeSource) Events() <-chan fsnotify.Event { return f.events }
func (f *fakeSource) Errors() <-chan error          { return f.errs }

func (f *fakeSource) Add(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, path)
	return nil
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSource) watched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.added...)
}

func (f *fakeSource) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeSource) emit(name string, op fsnotify.Op) {
	f.events <- fsnotify.Event{Name: name, Op: op}
}

type counter struct {
	n atomic.Int32
}

func (c *counter) reconcile(context.Context) error {
	c.n.Add(1)
	return nil
}

func (c *counter) count() int { return int(c.n.Load()) }

func startTest(t *testing.T, src Source, fn ReconcileFunc) *Session {
	t.Helper()
	s, err := StartWithSource(context.Background(), Options{
		Root:      "/proj",
		Dir:       "/proj/assets",
		Patterns:  PatternsFor("assets/**"),
		Debounce:  testDebounce,
		Reconcile: fn,
	}, src)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func TestBurstCoalescesIntoOnePass(t *testing.T) {
	src := newFakeSource()
	var c counter
	startTest(t, src, c.reconcile)

	for i := 0; i < 10; i++ {
		src.emit("/proj/assets/img.png", fsnotify.Write)
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return c.count() == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(3 * testDebounce)
	assert.Equal(t, 1, c.count(), "a single burst must produce exactly one pass")
}

func TestSpacedEventsProduceSeparatePasses(t *testing.T) {
	src := newFakeSource()
	var c counter
	startTest(t, src, c.reconcile)

	for i := 1; i <= 3; i++ {
		src.emit("/proj/assets/a.png", fsnotify.Create)
		want := i
		require.Eventually(t, func() bool { return c.count() == want }, time.Second, 10*time.Millisecond)
	}
}

func TestStopCancelsPendingTimer(t *testing.T) {
	src := newFakeSource()
	var c counter
	s := startTest(t, src, c.reconcile)

	src.emit("/proj/assets/a.png", fsnotify.Create)
	require.Eventually(t, func() bool { return s.State() == PendingReconcile }, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop())
	assert.Equal(t, Idle, s.State())

	time.Sleep(3 * testDebounce)
	assert.Equal(t, 0, c.count())
	assert.True(t, src.isClosed())
}

func TestEventsAfterStopAreIgnored(t *testing.T) {
	src := newFakeSource()
	var c counter
	s := startTest(t, src, c.reconcile)

	require.NoError(t, s.Stop())
	src.emit("/proj/assets/a.png", fsnotify.Create)

	time.Sleep(3 * testDebounce)
	assert.Equal(t, 0, c.count())
	assert.NoError(t, s.Stop(), "second Stop is a no-op")
}

func TestIrrelevantEventsAreFiltered(t *testing.T) {
	src := newFakeSource()
	var c counter
	startTest(t, src, c.reconcile)

	src.emit("/proj/pubspec.yaml", fsnotify.Write)
	src.emit("/proj/lib/main.dart", fsnotify.Create)
	src.emit("/proj/assets/a.png", fsnotify.Chmod)
	src.emit("/elsewhere/assets/a.png", fsnotify.Create)

	time.Sleep(3 * testDebounce)
	assert.Equal(t, 0, c.count())
}

func TestAssetsDirectoryItselfIsRelevant(t *testing.T) {
	src := newFakeSource()
	var c counter
	startTest(t, src, c.reconcile)

	src.emit("/proj/assets", fsnotify.Remove)

	assert.Eventually(t, func() bool { return c.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestAtMostOnePassInFlight(t *testing.T) {
	src := newFakeSource()
	release := make(chan struct{})
	var (
		inFlight atomic.Int32
		maxSeen  atomic.Int32
		passes   atomic.Int32
	)
	fn := func(context.Context) error {
		n := inFlight.Add(1)
		if n > maxSeen.Load() {
			maxSeen.Store(n)
		}
		if passes.Add(1) == 1 {
			<-release
		}
		inFlight.Add(-1)
		return nil
	}
	s := startTest(t, src, fn)

	src.emit("/proj/assets/a.png", fsnotify.Create)
	require.Eventually(t, func() bool { return s.State() == Reconciling }, time.Second, 5*time.Millisecond)

	src.emit("/proj/assets/b.png", fsnotify.Create)
	time.Sleep(3 * testDebounce)
	assert.Equal(t, int32(1), passes.Load(), "events during a pass wait for it to finish")

	close(release)
	require.Eventually(t, func() bool { return passes.Load() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), maxSeen.Load())
}

func TestReconcileErrorKeepsWatching(t *testing.T) {
	src := newFakeSource()
	var calls atomic.Int32
	s := startTest(t, src, func(context.Context) error {
		calls.Add(1)
		return errors.New("boom")
	})

	src.emit("/proj/assets/a.png", fsnotify.Create)
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return s.State() == Watching }, time.Second, 5*time.Millisecond)

	src.emit("/proj/assets/b.png", fsnotify.Create)
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 10*time.Millisecond)
}

func TestNewDirectoriesAreSubscribed(t *testing.T) {
	root := t.TempDir()
	assetsDir := filepath.Join(root, "assets")
	require.NoError(t, os.MkdirAll(filepath.Join(assetsDir, "images"), 0o755))

	src := newFakeSource()
	var c counter
	s, err := StartWithSource(context.Background(), Options{
		Root:      root,
		Dir:       assetsDir,
		Patterns:  PatternsFor("assets/**"),
		Debounce:  testDebounce,
		Reconcile: c.reconcile,
	}, src)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })

	assert.Equal(t, []string{root, assetsDir, filepath.Join(assetsDir, "images")}, src.watched())

	nested := filepath.Join(assetsDir, "fonts", "serif")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	src.emit(filepath.Join(assetsDir, "fonts"), fsnotify.Create)

	require.Eventually(t, func() bool { return c.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Contains(t, src.watched(), filepath.Join(assetsDir, "fonts"))
	assert.Contains(t, src.watched(), nested)
}

func TestStartRequiresReconcile(t *testing.T) {
	_, err := StartWithSource(context.Background(), Options{Root: "/proj"}, newFakeSource())
	assert.Error(t, err)
}

func TestContextCancelEndsSession(t *testing.T) {
	src := newFakeSource()
	var c counter
	ctx, cancel := context.WithCancel(context.Background())
	s, err := StartWithSource(ctx, Options{Root: "/proj", Debounce: testDebounce, Reconcile: c.reconcile}, src)
	require.NoError(t, err)

	cancel()
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("session did not exit after context cancel")
	}
	assert.NoError(t, s.Stop())
}

func TestPatternsFor(t *testing.T) {
	assert.Equal(t, []string{"assets/**", "assets"}, PatternsFor("assets/**"))
	assert.Equal(t, []string{"media/*.png"}, PatternsFor("media/*.png"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "watching", Watching.String())
	assert.Equal(t, "pending", PendingReconcile.String())
	assert.Equal(t, "reconciling", Reconciling.String())
}
