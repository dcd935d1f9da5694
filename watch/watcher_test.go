package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) record(changed []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, changed)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recorder) last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}

func startWatcher(t *testing.T, files []string, debounce time.Duration, fn ChangeFunc) {
	t.Helper()
	w, err := New(files, debounce, fn)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		w.Close()
	})
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	registry := filepath.Join(dir, "webgl.yaml")
	require.NoError(t, os.WriteFile(registry, []byte("format: \"1\"\n"), 0644))

	rec := &recorder{}
	startWatcher(t, []string{registry}, 100*time.Millisecond, rec.record)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(registry, []byte("format: \"1\"\n# edit\n"), 0644))
	}

	require.Eventually(t, func() bool { return rec.count() == 1 }, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{registry}, rec.last())

	// No further calls once the burst is over.
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	registry := filepath.Join(dir, "webgl.yaml")
	require.NoError(t, os.WriteFile(registry, []byte("format: \"1\"\n"), 0644))

	rec := &recorder{}
	startWatcher(t, []string{registry}, 50*time.Millisecond, rec.record)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing", "webgl.yaml")}, time.Millisecond, func([]string) error { return nil })
	assert.Error(t, err)
}
