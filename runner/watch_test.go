package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintrun/lintrun/internal/config"
)

func watchConfig() config.Config {
	cfg := config.Default()
	cfg.Watch.Debounce = config.Duration(10 * time.Millisecond)
	return cfg
}

func TestWatcherWantsFile(t *testing.T) {
	t.Parallel()
	ectx, _ := setupProject(t)
	r, _, _ := newTestRunner(t, ectx)

	w, err := NewWatcher(r, watchConfig(), nil)
	require.NoError(t, err)
	defer w.watcher.Close()

	assert.True(t, w.wantsFile("app.py"))
	assert.False(t, w.wantsFile("notes.txt"))
}

func TestWatcherRunsOnChange(t *testing.T) {
	t.Parallel()
	ectx, binDir := setupProject(t)
	writeStub(t, binDir, "flake8", "exit 0\n")
	r, _, _ := newTestRunner(t, ectx)

	ran := make(chan []Result, 1)
	cfg := watchConfig()
	w, err := NewWatcher(r, cfg, func(results []Result) {
		select {
		case ran <- results:
		default:
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Watch(ctx)
	}()

	// give the watch loop a moment to come up before triggering it
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(ectx.WorkDir, "app.py"), []byte("x = 1\n"), 0o644))

	select {
	case results := <-ran:
		require.Len(t, results, 1)
		assert.Equal(t, 0, results[0].Code)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never triggered a run")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}
