package watcher

import "fmt"

// Kind is the canonical event vocabulary dispatched to subscriptions.
type Kind uint8

const (
	Create Kind = iota
	Change
	Delete
)

// String returns the wire spelling of the kind.
func (k Kind) String() string {
	switch k {
	case Create:
		return "create"
	case Change:
		return "change"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind maps a wire spelling back to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "create":
		return Create, true
	case "change":
		return Change, true
	case "delete":
		return Delete, true
	default:
		return 0, false
	}
}

// KindSet is a set of canonical event kinds.
type KindSet uint8

// Add inserts k into the set.
func (s *KindSet) Add(k Kind) {
	*s |= 1 << k
}

// Has reports whether k is in the set.
func (s KindSet) Has(k Kind) bool {
	return s&(1<<k) != 0
}

// Event is one normalized filesystem change: a canonical kind and the
// absolute path it happened at.
type Event struct {
	Kind Kind
	Path string
}

// RawKind tags an event as delivered by the OS watch backend, before
// normalization.
type RawKind uint8

const (
	RawCreate RawKind = iota
	RawModify
	RawRemove
	// RawRenameFrom is the source half of a rename; the destination was not
	// observed (moved outside every watched tree, or the platform reports
	// halves separately).
	RawRenameFrom
	// RawRenameTo is the destination half of a rename whose source was not
	// observed.
	RawRenameTo
	// RawRenameBoth carries both halves: Path is the source, Dest the
	// destination.
	RawRenameBoth
	// RawOther covers attribute-only and access notifications, which
	// normalization drops.
	RawOther
)

// RawEvent is one notification from the OS watch backend. Dest is set only
// for RawRenameBoth.
type RawEvent struct {
	Kind RawKind
	Path string
	Dest string
}
