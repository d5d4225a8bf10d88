package watcher

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

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestFilters(t *testing.T) {
	assert.True(t, SourceFilter("source/main.ptx"))
	assert.True(t, SourceFilter("source/ch1.XML"))
	assert.False(t, SourceFilter("output/index.html"))

	assert.True(t, NoHiddenFilter("source/main.ptx"))
	assert.False(t, NoHiddenFilter("source/.main.ptx.swp"))
	assert.False(t, NoHiddenFilter("source/main.ptx~"))
}

func TestAddRecursiveRejectsMissingRoot(t *testing.T) {
	fw, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	err = fw.AddRecursive(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestDebouncerDeduplicatesByPath(t *testing.T) {
	d := &Debouncer{
		delay:  time.Hour,
		events: make(chan ChangeEvent, 10),
		output: make(chan []ChangeEvent, 1),
	}

	d.addEvent(ChangeEvent{Type: EventTypeCreated, Path: "a.ptx"})
	d.addEvent(ChangeEvent{Type: EventTypeModified, Path: "b.ptx"})
	d.addEvent(ChangeEvent{Type: EventTypeModified, Path: "a.ptx"})
	d.timer.Stop()
	d.flush()

	events := <-d.output
	require.Len(t, events, 2)
	assert.Equal(t, "a.ptx", events[0].Path)
	assert.Equal(t, EventTypeModified, events[0].Type)
	assert.Equal(t, "b.ptx", events[1].Path)
}

func TestFileWatcherReportsFilteredChanges(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "chapters")
	require.NoError(t, os.MkdirAll(nested, 0755))

	fw, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	fw.AddFilter(SourceFilter)

	var mu sync.Mutex
	var seen []string
	fw.AddHandler(func(events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			seen = append(seen, filepath.Base(e.Path))
		}
		return nil
	})

	require.NoError(t, fw.AddRecursive(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(nested, "ch1.ptx"), []byte("<chapter/>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	}, 3*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, seen, "ch1.ptx")
	assert.NotContains(t, seen, "notes.txt")
}

func TestStopIsIdempotent(t *testing.T) {
	fw, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)

	assert.NoError(t, fw.Stop())
	assert.NoError(t, fw.Stop())
}
