package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIsSourceEvent(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "yaml write", event: fsnotify.Event{Name: "a.yaml", Op: fsnotify.Write}, want: true},
		{name: "yml create", event: fsnotify.Event{Name: "b.yml", Op: fsnotify.Create}, want: true},
		{name: "yaml remove", event: fsnotify.Event{Name: "a.yaml", Op: fsnotify.Remove}, want: true},
		{name: "case folded", event: fsnotify.Event{Name: "A.YAML", Op: fsnotify.Write}, want: true},
		{name: "other extension", event: fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, want: false},
		{name: "chmod only", event: fsnotify.Event{Name: "a.yaml", Op: fsnotify.Chmod}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isSourceEvent(tt.event))
		})
	}
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"), func() {}, zap.NewNop())
	require.Error(t, err)
}

func TestWatcherFiresOnChange(t *testing.T) {
	dir := t.TempDir()

	fired := make(chan struct{}, 1)
	w, err := New(dir, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to start receiving events.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fields.yaml"), []byte("products: {}"), 0o644))

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not fire after a source change")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()

	fired := make(chan struct{}, 1)
	w, err := New(dir, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case <-fired:
		t.Fatal("watcher fired for a non-source file")
	case <-time.After(600 * time.Millisecond):
	}
}
