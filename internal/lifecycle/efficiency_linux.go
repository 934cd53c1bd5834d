//go:build linux

package lifecycle

import "golang.org/x/sys/unix"

// LowerSchedulingPriority moves the process into the batch scheduling class
// so directory walks after large checkouts don't compete with interactive
// work. Failure is not actionable: the process simply keeps its default
// priority.
func LowerSchedulingPriority() {
	attr := &unix.SchedAttr{
		Size:   unix.SizeofSchedAttr,
		Policy: unix.SCHED_BATCH,
	}
	unix.SchedSetAttr(0, attr, 0) //nolint:errcheck
}
