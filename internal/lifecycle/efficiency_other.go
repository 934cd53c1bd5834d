//go:build !linux

package lifecycle

// LowerSchedulingPriority is a no-op outside Linux.
func LowerSchedulingPriority() {}
