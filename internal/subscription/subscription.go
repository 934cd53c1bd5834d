// Package subscription tracks the logical watch subscriptions registered by
// the peer, and the reference-counted set of root directories they share.
//
// Both structures are plain data guarded by their owner's single lock (see
// internal/service); nothing here synchronizes on its own.
package subscription

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/watchmux/internal/pattern"
	"github.com/blackwell-systems/watchmux/internal/watcher"
)

// Subscription is one registered logical watcher: an externally supplied id,
// a canonical root directory, the event kinds it wants, and its compiled
// path filter. Immutable after construction, so dispatch can read it without
// holding the registry lock.
type Subscription struct {
	UID     int
	Root    string
	Events  watcher.KindSet
	Matcher *pattern.Matcher
}

// New canonicalizes root, verifies it is an existing directory, compiles the
// patterns against it, and returns the subscription. A bad root fails the
// whole subscription; a bad individual pattern is dropped inside Compile.
func New(uid int, root string, events watcher.KindSet, patterns, ignores []string) (*Subscription, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("canonicalize root %s: %w", root, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("stat root %s: %w", canonical, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", canonical)
	}

	return &Subscription{
		UID:     uid,
		Root:    canonical,
		Events:  events,
		Matcher: pattern.Compile(canonical, patterns, ignores),
	}, nil
}

// Relative returns path relative to the subscription root with forward
// slashes, or ok=false when path does not lie under the root. Events can
// transiently reference paths outside a root during teardown races; callers
// skip those.
func (s *Subscription) Relative(path string) (string, bool) {
	rel, err := filepath.Rel(s.Root, path)
	if err != nil {
		return "", false
	}
	if rel == ".." || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
