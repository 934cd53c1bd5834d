// Package pattern compiles a subscription's include and ignore path specs
// and decides whether an event path is interesting to that subscription.
package pattern

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher holds the compiled include globs, include literal prefixes, and
// ignore globs of one subscription. All stored patterns and prefixes are
// absolute, slash-separated paths resolved against the subscription root, so
// a relative pattern can never match outside the subscription's own tree.
//
// A path is included when it matches at least one include glob or starts
// with at least one literal prefix, unless it also matches an ignore glob.
// Ignores win unconditionally.
type Matcher struct {
	includes []string
	prefixes []string
	ignores  []string
}

// Compile resolves patterns and ignores against root and compiles them.
// Root must be an absolute, canonical directory. A pattern with invalid glob
// syntax is reported and dropped; it never fails the whole subscription.
//
// Every include pattern is also recorded verbatim as a literal prefix. For a
// glob-free pattern like "src" that prefix matches anything under root/src.
// For a pattern with metacharacters the prefix contains them literally and
// matches nothing real, leaving the glob as the only route in.
func Compile(root string, patterns, ignores []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		abs := resolve(root, p)
		m.prefixes = append(m.prefixes, abs)
		if glob, ok := compile(abs); ok {
			m.includes = append(m.includes, glob)
		}
	}
	for _, p := range ignores {
		abs := resolve(root, p)
		if glob, ok := compile(abs); ok {
			m.ignores = append(m.ignores, glob)
		}
	}
	return m
}

// Match reports whether the absolute path passes this matcher's filter.
func (m *Matcher) Match(path string) bool {
	path = filepath.ToSlash(path)

	included := false
	for _, prefix := range m.prefixes {
		if hasPathPrefix(path, prefix) {
			included = true
			break
		}
	}
	if !included {
		for _, glob := range m.includes {
			if ok, err := doublestar.Match(glob, path); err == nil && ok {
				included = true
				break
			}
		}
	}
	if !included {
		return false
	}

	for _, glob := range m.ignores {
		if ok, err := doublestar.Match(glob, path); err == nil && ok {
			return false
		}
	}
	return true
}

// resolve joins a pattern with the subscription root and normalizes it to a
// slash-separated absolute path. Absolute patterns are kept as given.
// filepath.Join cleans "." and ".." segments, which is what pins relative
// patterns inside the root.
func resolve(root, pattern string) string {
	pattern = filepath.FromSlash(pattern)
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(root, pattern)
	}
	return filepath.ToSlash(pattern)
}

// compile validates glob syntax, reporting and rejecting bad patterns.
func compile(glob string) (string, bool) {
	if !doublestar.ValidatePattern(glob) {
		log.Printf("invalid glob pattern: %q", glob)
		return "", false
	}
	return glob, true
}

// hasPathPrefix reports whether path is prefix itself or lies under it.
// The comparison is segment-aware: "/a" covers "/a/b" but not "/ab".
func hasPathPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/")
}
