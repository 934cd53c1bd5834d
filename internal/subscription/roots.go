package subscription

import (
	"os"
	"sort"
	"strings"
)

// Action tells the caller whether a RootSet mutation requires an actual
// OS-level watch call.
type Action int

const (
	// ActionNone means the installed OS watches already cover the request.
	ActionNone Action = iota
	// ActionInstall means a new OS watch must be installed for the path.
	ActionInstall
)

func (a Action) String() string {
	if a == ActionInstall {
		return "install"
	}
	return "none"
}

// RootSet reference-counts the distinct root directories subscriptions watch
// and decides when OS watches must actually be installed or removed.
//
// Two maps are maintained: refs counts subscriptions per root, installed is
// the set of roots an OS watch was actually ordered for. They diverge
// because recursive watches nest: a root registered under an already
// installed watch needs no watch of its own, and an installed watch may have
// to outlive its own root while a descendant root still leans on it. The
// invariant: every referenced root is covered by some installed watch at or
// above it, and installed watches that cover no referenced root are torn
// down.
type RootSet struct {
	refs      map[string]int
	installed map[string]struct{}
}

func NewRootSet() *RootSet {
	return &RootSet{
		refs:      make(map[string]int),
		installed: make(map[string]struct{}),
	}
}

// Add records one more subscription rooted at path. ActionInstall is
// returned only when no installed watch already covers path; a root nested
// inside a watched tree shares the ancestor's watch.
func (s *RootSet) Add(path string) Action {
	s.refs[path]++
	if s.refs[path] > 1 {
		return ActionNone
	}
	for w := range s.installed {
		if covers(w, path) {
			return ActionNone
		}
	}
	s.installed[path] = struct{}{}
	return ActionInstall
}

// Remove drops one reference to path and returns the installed watches that
// thereby became garbage and must be torn down, outermost only: a stale
// watch nested inside another doomed or still-needed watch is dropped from
// the bookkeeping without its own OS call, since the per-directory watches
// it stands for belong to the enclosing tree.
func (s *RootSet) Remove(path string) []string {
	count, ok := s.refs[path]
	if !ok {
		return nil
	}
	if count > 1 {
		s.refs[path] = count - 1
		return nil
	}
	delete(s.refs, path)

	// An installed watch is garbage once no referenced root sits at or
	// below it.
	var garbage []string
	for w := range s.installed {
		needed := false
		for root := range s.refs {
			if covers(w, root) {
				needed = true
				break
			}
		}
		if !needed {
			garbage = append(garbage, w)
		}
	}
	sort.Slice(garbage, func(i, j int) bool { return len(garbage[i]) < len(garbage[j]) })

	var uninstall []string
	for _, w := range garbage {
		delete(s.installed, w)
		enclosed := false
		for _, outer := range uninstall {
			if covers(outer, w) {
				enclosed = true
				break
			}
		}
		if !enclosed {
			for live := range s.installed {
				if covers(live, w) {
					enclosed = true
					break
				}
			}
		}
		if !enclosed {
			uninstall = append(uninstall, w)
		}
	}
	return uninstall
}

// Count returns the reference count for path, zero if absent.
func (s *RootSet) Count(path string) int {
	return s.refs[path]
}

// Active returns the currently referenced roots in sorted order.
func (s *RootSet) Active() []string {
	out := make([]string, 0, len(s.refs))
	for path := range s.refs {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// covers reports whether descendant equals ancestor or lies beneath it. The
// check is path-segment aware: "/a" covers "/a/b" but not "/ab".
func covers(ancestor, descendant string) bool {
	if ancestor == descendant {
		return true
	}
	sep := string(os.PathSeparator)
	return strings.HasPrefix(descendant, strings.TrimSuffix(ancestor, sep)+sep)
}
