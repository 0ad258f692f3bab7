package watcher

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Watcher:
// - New succeeds for a directory and fails for a missing one
// - A file change fires the callback after the debounce period
// - Rapid changes are coalesced into one sorted batch
// - Files with other extensions are ignored
// - Files in directories created after Start are reported
// - Stop is idempotent, also without Start
// - Cancelling the context stops delivery

const testDebounce = 100 * time.Millisecond

func newTestWatcher(t *testing.T, dir string) *Watcher {
	t.Helper()
	w, err := New(dir, []string{".m"},
		WithDebounce(testDebounce),
		WithLogger(log.New(&bytes.Buffer{}, "", 0)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

// collector gathers callback batches.
type collector struct {
	mu      sync.Mutex
	batches [][]string
	ch      chan struct{}
}

func newCollector() *collector {
	return &collector{ch: make(chan struct{}, 16)}
}

func (c *collector) callback(files []string) {
	c.mu.Lock()
	c.batches = append(c.batches, files)
	c.mu.Unlock()
	c.ch <- struct{}{}
}

func (c *collector) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.ch:
	case <-time.After(3 * time.Second):
		t.Fatal("callback not called after timeout")
	}
}

func (c *collector) all() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]string(nil), c.batches...)
}

func TestNew_InvalidDirectory(t *testing.T) {
	t.Parallel()

	w, err := New(filepath.Join(t.TempDir(), "missing"), []string{".m"})
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestWatcher_SingleFileChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := newTestWatcher(t, dir)
	c := newCollector()
	require.NoError(t, w.Start(context.Background(), c.callback))

	path := filepath.Join(dir, "solve.m")
	require.NoError(t, os.WriteFile(path, []byte("x = 1;\n"), 0o644))

	c.wait(t)
	batches := c.all()
	require.Len(t, batches, 1)
	assert.Equal(t, []string{path}, batches[0])
}

func TestWatcher_CoalescesRapidChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(dir, []string{".m"},
		WithDebounce(300*time.Millisecond),
		WithLogger(log.New(&bytes.Buffer{}, "", 0)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	c := newCollector()
	require.NoError(t, w.Start(context.Background(), c.callback))

	b := filepath.Join(dir, "b.m")
	a := filepath.Join(dir, "a.m")
	require.NoError(t, os.WriteFile(b, []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(a, []byte("2"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("3"), 0o644))

	c.wait(t)
	batches := c.all()
	require.Len(t, batches, 1)
	assert.Equal(t, []string{a, b}, batches[0])
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := newTestWatcher(t, dir)
	c := newCollector()
	require.NoError(t, w.Start(context.Background(), c.callback))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(4 * testDebounce)
	assert.Empty(t, c.all())

	path := filepath.Join(dir, "main.m")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	c.wait(t)
	assert.Equal(t, [][]string{{path}}, c.all())
}

func TestWatcher_NewDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := newTestWatcher(t, dir)
	c := newCollector()
	require.NoError(t, w.Start(context.Background(), c.callback))

	sub := filepath.Join(dir, "lib")
	require.NoError(t, os.Mkdir(sub, 0o755))
	time.Sleep(4 * testDebounce)

	path := filepath.Join(sub, "helper.m")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	deadline := time.After(3 * time.Second)
	for {
		select {
		case <-c.ch:
			for _, batch := range c.all() {
				if assert.ObjectsAreEqual([]string{path}, batch) {
					return
				}
			}
		case <-deadline:
			t.Fatalf("change in new directory not reported, got %v", c.all())
		}
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	w, err := New(t.TempDir(), []string{".m"})
	require.NoError(t, err)

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestWatcher_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := newTestWatcher(t, dir)
	c := newCollector()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, c.callback))
	cancel()

	select {
	case <-w.doneCh:
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop did not exit")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "late.m"), []byte("x"), 0o644))
	time.Sleep(4 * testDebounce)
	assert.Empty(t, c.all())
}
