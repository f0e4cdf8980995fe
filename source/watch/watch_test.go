package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherMatches(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"no patterns matches everything", nil, "any/file.bin", true},
		{"txt glob matches", []string{"**/*.txt"}, "notes/today.txt", true},
		{"txt glob rejects other extension", []string{"**/*.txt"}, "notes/today.md", false},
		{"multiple patterns", []string{"**/*.txt", "**/*.md"}, "readme.md", true},
		{"nested doublestar", []string{"inbox/**/*.txt"}, "inbox/a/b/c.txt", true},
		{"outside nested pattern", []string{"inbox/**/*.txt"}, "outbox/c.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Watcher{opts: Options{Patterns: tt.patterns}}
			if got := w.matches(filepath.FromSlash(tt.path)); got != tt.want {
				t.Errorf("matches(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	if o.Debounce != 500*time.Millisecond {
		t.Errorf("default debounce = %s, want 500ms", o.Debounce)
	}
	if len(o.ExcludeDirs) == 0 {
		t.Error("expected default exclude dirs")
	}

	o = Options{Debounce: time.Second, ExcludeDirs: []string{"tmp"}}.withDefaults()
	if o.Debounce != time.Second {
		t.Errorf("explicit debounce overridden, got %s", o.Debounce)
	}
	if len(o.ExcludeDirs) != 1 || o.ExcludeDirs[0] != "tmp" {
		t.Errorf("explicit exclude dirs overridden, got %v", o.ExcludeDirs)
	}
}

func waitForEvent(t *testing.T, events <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev, ok := <-events:
		if !ok {
			t.Fatal("events channel closed unexpectedly")
		}
		return ev
	case <-time.After(timeout):
		t.Fatal("timed out waiting for watch event")
	}
	return Event{}
}

func TestWatcherEmitsCreateAndModify(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := New(dir, Options{
		Debounce: 50 * time.Millisecond,
		Patterns: []string{"**/*.txt"},
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(path, []byte("first"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ev := waitForEvent(t, w.Events(), 5*time.Second)
	if ev.Operation != OpCreate {
		t.Errorf("first event op = %s, want create", ev.Operation)
	}
	if ev.Path != "input.txt" {
		t.Errorf("first event path = %s, want input.txt", ev.Path)
	}

	if err := os.WriteFile(path, []byte("second"), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	ev = waitForEvent(t, w.Events(), 5*time.Second)
	if ev.Operation != OpModify {
		t.Errorf("second event op = %s, want modify", ev.Operation)
	}
}

func TestWatcherIgnoresUnmatchedFiles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := New(dir, Options{
		Debounce: 50 * time.Millisecond,
		Patterns: []string{"**/*.txt"},
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "image.png"), []byte{1, 2, 3}, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case ev := <-w.Events():
		t.Errorf("unexpected event for unmatched file: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherSuppressesUnchangedRewrite(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := New(dir, Options{
		Debounce: 50 * time.Millisecond,
		Patterns: []string{"**/*.txt"},
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "same.txt")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitForEvent(t, w.Events(), 5*time.Second)

	// Rewriting identical bytes must not produce a second event.
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case ev := <-w.Events():
		t.Errorf("unexpected event for unchanged content: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}
