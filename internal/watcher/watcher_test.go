package watcher

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_CollapsesBurst(t *testing.T) {
	t.Parallel()

	d := newDebouncer(20*time.Millisecond, zerolog.Nop())
	batches := make(chan []string, 4)
	handler := func(files []string) error {
		batches <- files
		return nil
	}

	for _, p := range []string{"b.py", "a.c", "b.py"} {
		d.add(FileChangeEvent{Path: p, Operation: "WRITE", Timestamp: time.Now()}, handler)
	}

	select {
	case got := <-batches:
		assert.Equal(t, []string{"a.c", "b.py"}, got)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "debouncer never flushed")
	}

	select {
	case extra := <-batches:
		assert.Failf(t, "unexpected second batch", "%v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	t.Parallel()

	d := newDebouncer(20*time.Millisecond, zerolog.Nop())
	called := make(chan struct{}, 1)
	d.add(FileChangeEvent{Path: "a.py"}, func([]string) error {
		called <- struct{}{}
		return nil
	})
	d.stop()

	select {
	case <-called:
		assert.Fail(t, "handler ran after stop")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestIsSourceFile(t *testing.T) {
	t.Parallel()

	assert.True(t, IsSourceFile("pkg/main.py"))
	assert.True(t, IsSourceFile("src/main.c"))
	assert.False(t, IsSourceFile("main.go"))
	assert.False(t, IsSourceFile("README.md"))
}

func TestShouldSkip(t *testing.T) {
	t.Parallel()

	assert.True(t, shouldSkipFile("dir/.hidden.py"))
	assert.True(t, shouldSkipFile("dir/main.py~"))
	assert.True(t, shouldSkipFile("dir/main.c.swp"))
	assert.False(t, shouldSkipFile("dir/main.c"))

	assert.True(t, SkipDir("__pycache__"))
	assert.True(t, SkipDir(".git"))
	assert.False(t, SkipDir("src"))
}

func TestNewFileWatcher_DefaultDelay(t *testing.T) {
	t.Parallel()

	fw, err := NewFileWatcher(Options{}, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()

	assert.Equal(t, DefaultDelay, fw.opts.Delay)

	require.NoError(t, fw.addPath(t.TempDir()))
	assert.Len(t, fw.GetWatchedPaths(), 1)
}
