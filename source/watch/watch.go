// Package watch emits debounced change events for batch input files so a
// chunking run can be repeated when its inputs change.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// eventChannelBuffer is the size of the watch event channel.
const eventChannelBuffer = 256

// Operation indicates the type of file operation.
type Operation string

// OpCreate, OpModify, and OpDelete enumerate the watch operation types.
const (
	OpCreate Operation = "create"
	OpModify Operation = "modify"
	OpDelete Operation = "delete"
)

// Event represents a matched input file change.
type Event struct {
	// Path is the file path relative to the watched root.
	Path string

	// AbsPath is the absolute file path.
	AbsPath string

	// Operation is the type of change.
	Operation Operation
}

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period collected changes wait before they are
	// emitted. Defaults to 500ms when zero.
	Debounce time.Duration

	// Patterns are doublestar globs matched against paths relative to the
	// root. An empty list matches every file.
	Patterns []string

	// ExcludeDirs lists directory names skipped during the recursive walk.
	ExcludeDirs []string
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = 500 * time.Millisecond
	}
	if len(o.ExcludeDirs) == 0 {
		o.ExcludeDirs = []string{".git", "node_modules", "vendor"}
	}
	return o
}

// Watcher watches a directory tree and emits debounced events for files
// matching the configured patterns. Unchanged rewrites are suppressed by
// content hash.
type Watcher struct {
	root     string
	opts     Options
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	excludes map[string]bool

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.RWMutex
	hashes map[string]string

	events  chan Event
	dropped atomic.Int64
}

// New creates a watcher rooted at dir.
func New(dir string, opts Options, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()

	excludes := make(map[string]bool, len(opts.ExcludeDirs))
	for _, d := range opts.ExcludeDirs {
		excludes[d] = true
	}

	return &Watcher{
		root:     dir,
		opts:     opts,
		watcher:  fsw,
		logger:   logger,
		excludes: excludes,
		pending:  make(map[string]fsnotify.Op),
		hashes:   make(map[string]string),
		events:   make(chan Event, eventChannelBuffer),
	}, nil
}

// Events returns the channel of watch events. It is closed when the watcher
// stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins watching. The events channel closes when ctx is cancelled or
// Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.root, 0755); err != nil {
		return err
	}

	if err := w.addWatchesRecursive(w.root); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("File watcher started",
		"root", w.root,
		"debounce", w.opts.Debounce,
		"patterns", w.opts.Patterns)

	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// Dropped returns the number of events dropped due to channel overflow.
func (w *Watcher) Dropped() int64 {
	return w.dropped.Load()
}

// matches reports whether the relative path matches any configured pattern.
func (w *Watcher) matches(relPath string) bool {
	if len(w.opts.Patterns) == 0 {
		return true
	}
	rel := filepath.ToSlash(relPath)
	for _, pattern := range w.opts.Patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}

		base := filepath.Base(path)
		if w.excludes[base] || (strings.HasPrefix(base, ".") && path != root) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.opts.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name
	relPath, err := filepath.Rel(w.root, path)
	if err != nil {
		return
	}

	if !w.matches(relPath) {
		// New subdirectories still need a watch.
		if event.Has(fsnotify.Create) {
			if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
				w.handleNewDirectory(path)
			}
		}
		return
	}

	for excludeDir := range w.excludes {
		if strings.Contains(relPath, excludeDir+string(filepath.Separator)) {
			return
		}
	}

	w.pendingMu.Lock()
	w.pending[path] = event.Op
	w.pendingMu.Unlock()
}

func (w *Watcher) handleNewDirectory(path string) {
	base := filepath.Base(path)
	if w.excludes[base] || strings.HasPrefix(base, ".") {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("Failed to watch new directory", "path", path, "error", err)
	}
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		relPath, _ := filepath.Rel(w.root, path)
		event := Event{Path: relPath, AbsPath: path}

		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			event.Operation = OpDelete
			w.forgetHash(relPath)
			w.send(event)
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			event.Operation = OpDelete
			w.forgetHash(relPath)
			w.send(event)
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			w.logger.Warn("Failed to read changed file", "path", relPath, "error", err)
			continue
		}

		newHash := contentHash(content)
		oldHash, hadHash := w.lookupHash(relPath)
		if hadHash && oldHash == newHash {
			continue
		}
		w.storeHash(relPath, newHash)

		if op.Has(fsnotify.Create) || !hadHash {
			event.Operation = OpCreate
		} else {
			event.Operation = OpModify
		}
		w.send(event)
	}
}

func (w *Watcher) send(event Event) {
	select {
	case w.events <- event:
	default:
		dropped := w.dropped.Add(1)
		w.logger.Warn("Event channel full, dropping event",
			"path", event.Path,
			"total_dropped", dropped)
	}
}

func (w *Watcher) lookupHash(relPath string) (string, bool) {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	h, ok := w.hashes[relPath]
	return h, ok
}

func (w *Watcher) storeHash(relPath, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[relPath] = hash
}

func (w *Watcher) forgetHash(relPath string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	delete(w.hashes, relPath)
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
