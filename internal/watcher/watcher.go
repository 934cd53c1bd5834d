package watcher

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the raw-event coalescing window used when the caller
// does not override it. A few hundred milliseconds absorbs editor save
// bursts (temp-file write + rename + delete) into one batch.
const DefaultDebounce = 400 * time.Millisecond

// ErrClosed is returned by Watch after the backend has been closed.
var ErrClosed = errors.New("watcher backend closed")

// Backend turns fsnotify's per-directory, non-recursive watches into the
// recursive, debounced event source the rest of the system expects. Watch
// walks a root and registers every directory beneath it; directories created
// later under a watched root are registered as their create events arrive.
// Raw events are coalesced by the debouncer and handed to the deliver
// callback one batch at a time.
type Backend struct {
	fs  *fsnotify.Watcher
	deb *debouncer

	mu      sync.Mutex
	roots   map[string]struct{}
	watched map[string]struct{}
	closed  bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewBackend creates a Backend delivering debounced batches to deliver.
// A non-positive window selects DefaultDebounce.
func NewBackend(window time.Duration, deliver func([]RawEvent)) (*Backend, error) {
	if window <= 0 {
		window = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	b := &Backend{
		fs:      fsw,
		deb:     newDebouncer(window, deliver),
		roots:   make(map[string]struct{}),
		watched: make(map[string]struct{}),
		done:    make(chan struct{}),
	}

	b.wg.Add(1)
	go b.run()

	return b, nil
}

// Watch installs a recursive watch on root. The root directory itself must
// be watchable or the call fails; unreadable subdirectories are reported and
// skipped.
func (b *Backend) Watch(root string) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.roots[root] = struct{}{}
	b.mu.Unlock()

	if err := b.addDir(root); err != nil {
		b.mu.Lock()
		delete(b.roots, root)
		b.mu.Unlock()
		return fmt.Errorf("watch %s: %w", root, err)
	}

	b.addSubdirs(root)
	return nil
}

// Unwatch tears down the watch on root and every watched directory beneath
// it. Callers only invoke this when no other active root overlaps root, so
// removing the whole subtree cannot strand another subscription.
func (b *Backend) Unwatch(root string) error {
	b.mu.Lock()
	delete(b.roots, root)
	var dirs []string
	for dir := range b.watched {
		if underPath(root, dir) {
			dirs = append(dirs, dir)
			delete(b.watched, dir)
		}
	}
	b.mu.Unlock()

	for _, dir := range dirs {
		// The directory may have been deleted out from under us, in which
		// case the kernel already dropped the watch.
		if err := b.fs.Remove(dir); err != nil && dir == root {
			log.Printf("unwatch %s: %v", dir, err)
		}
	}
	return nil
}

// Close stops event delivery and releases all OS watches. Pending
// debounced events are discarded.
func (b *Backend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	close(b.done)
	b.deb.stop()
	err := b.fs.Close()
	b.wg.Wait()
	return err
}

func (b *Backend) run() {
	defer b.wg.Done()

	for {
		select {
		case ev, ok := <-b.fs.Events:
			if !ok {
				return
			}
			b.handle(ev)
		case err, ok := <-b.fs.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		case <-b.done:
			return
		}
	}
}

func (b *Backend) handle(ev fsnotify.Event) {
	raw := mapOp(ev)

	switch raw.Kind {
	case RawCreate:
		// A directory created under a watched root needs its own watch, and
		// may already contain entries we never saw created.
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && b.underRoot(ev.Name) {
			if err := b.addDir(ev.Name); err != nil {
				log.Printf("watch new directory %s: %v", ev.Name, err)
			} else {
				b.addSubdirs(ev.Name)
			}
		}
	case RawRemove, RawRenameFrom:
		// The kernel drops watches on deleted directories itself; just keep
		// the bookkeeping in step.
		b.mu.Lock()
		delete(b.watched, ev.Name)
		b.mu.Unlock()
	}

	b.deb.add(raw)
}

func (b *Backend) addDir(dir string) error {
	if err := b.fs.Add(dir); err != nil {
		return err
	}
	b.mu.Lock()
	b.watched[dir] = struct{}{}
	b.mu.Unlock()
	return nil
}

// addSubdirs registers every directory strictly below dir, best effort.
func (b *Backend) addSubdirs(dir string) {
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("watch walk %s: %v", path, err)
			return nil
		}
		if path == dir || !d.IsDir() {
			return nil
		}
		if err := b.addDir(path); err != nil {
			log.Printf("watch %s: %v", path, err)
		}
		return nil
	})
}

func (b *Backend) underRoot(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for root := range b.roots {
		if underPath(root, path) {
			return true
		}
	}
	return false
}

// underPath reports whether path equals root or lies beneath it,
// segment-aware so "/a" does not cover "/ab".
func underPath(root, path string) bool {
	if path == root {
		return true
	}
	sep := string(os.PathSeparator)
	return strings.HasPrefix(path, strings.TrimSuffix(root, sep)+sep)
}

func mapOp(ev fsnotify.Event) RawEvent {
	switch {
	case ev.Op.Has(fsnotify.Create):
		return RawEvent{Kind: RawCreate, Path: ev.Name}
	case ev.Op.Has(fsnotify.Write):
		return RawEvent{Kind: RawModify, Path: ev.Name}
	case ev.Op.Has(fsnotify.Remove):
		return RawEvent{Kind: RawRemove, Path: ev.Name}
	case ev.Op.Has(fsnotify.Rename):
		// fsnotify reports only the source half; pairing with the
		// destination (which surfaces as a plain create) is left to the
		// normalizer's orphan-half rules.
		return RawEvent{Kind: RawRenameFrom, Path: ev.Name}
	default:
		return RawEvent{Kind: RawOther, Path: ev.Name}
	}
}
