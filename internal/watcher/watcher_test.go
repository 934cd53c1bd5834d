package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// newTestBackend creates a Backend with a short debounce window that
// forwards batches onto the returned channel.
func newTestBackend(t *testing.T) (*Backend, chan []RawEvent) {
	t.Helper()
	batches := make(chan []RawEvent, 16)
	b, err := NewBackend(50*time.Millisecond, func(batch []RawEvent) {
		batches <- batch
	})
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b, batches
}

// collect drains batches until the deadline, returning every raw event seen.
func collect(t *testing.T, batches chan []RawEvent, wait time.Duration) []RawEvent {
	t.Helper()
	var events []RawEvent
	deadline := time.After(wait)
	for {
		select {
		case batch := <-batches:
			events = append(events, batch...)
		case <-deadline:
			return events
		}
	}
}

func hasEvent(events []RawEvent, kind RawKind, path string) bool {
	for _, ev := range events {
		if ev.Kind == kind && ev.Path == path {
			return true
		}
	}
	return false
}

func TestBackendDeliversCreate(t *testing.T) {
	b, batches := newTestBackend(t)

	root := t.TempDir()
	if err := b.Watch(root); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	path := filepath.Join(root, "a.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	events := collect(t, batches, time.Second)
	if !hasEvent(events, RawCreate, path) {
		t.Errorf("no create event for %s in %v", path, events)
	}
}

func TestBackendWatchesExistingSubdirs(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "nested", "deep")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	b, batches := newTestBackend(t)
	if err := b.Watch(root); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	path := filepath.Join(sub, "a.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	events := collect(t, batches, time.Second)
	if !hasEvent(events, RawCreate, path) {
		t.Errorf("no create event under pre-existing subdir, got %v", events)
	}
}

func TestBackendWatchesNewSubdirs(t *testing.T) {
	b, batches := newTestBackend(t)

	root := t.TempDir()
	if err := b.Watch(root); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	sub := filepath.Join(root, "later")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// Give the backend a beat to pick up the directory create and install
	// the new watch before writing into it.
	time.Sleep(300 * time.Millisecond)

	path := filepath.Join(sub, "a.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	events := collect(t, batches, time.Second)
	if !hasEvent(events, RawCreate, path) {
		t.Errorf("no create event under late-created subdir, got %v", events)
	}
}

func TestBackendUnwatchStopsDelivery(t *testing.T) {
	b, batches := newTestBackend(t)

	root := t.TempDir()
	if err := b.Watch(root); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := b.Unwatch(root); err != nil {
		t.Fatalf("Unwatch() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if events := collect(t, batches, 300*time.Millisecond); len(events) != 0 {
		t.Errorf("events delivered after Unwatch: %v", events)
	}
}

func TestBackendWatchMissingRoot(t *testing.T) {
	b, _ := newTestBackend(t)

	if err := b.Watch(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Watch() on a missing directory succeeded, want error")
	}
}

func TestBackendWatchAfterClose(t *testing.T) {
	b, _ := newTestBackend(t)
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := b.Watch(t.TempDir()); err != ErrClosed {
		t.Errorf("Watch() after close = %v, want ErrClosed", err)
	}
}

func TestUnderPath(t *testing.T) {
	tests := []struct {
		root string
		path string
		want bool
	}{
		{"/a", "/a", true},
		{"/a", "/a/b", true},
		{"/a", "/a/b/c", true},
		{"/a", "/ab", false},
		{"/a/b", "/a", false},
	}

	for _, tt := range tests {
		if got := underPath(tt.root, tt.path); got != tt.want {
			t.Errorf("underPath(%q, %q) = %v, want %v", tt.root, tt.path, got, tt.want)
		}
	}
}
