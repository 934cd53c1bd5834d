// Package lifecycle ties the process lifetime to the process that spawned
// it. The watcher is always a child of an editor or language client; when
// that parent dies without sending EOF (crash, SIGKILL), the watcher must
// not linger holding OS watch descriptors.
package lifecycle

import (
	"os"
	"time"
)

// parentPollInterval is the fallback polling cadence used when the platform
// has no way to block on parent exit.
var parentPollInterval = 2 * time.Second

// WatchParent invokes onExit from its own goroutine once the parent process
// terminates. If the process is already reparented (orphaned before the
// watch starts), onExit fires immediately.
func WatchParent(onExit func()) {
	go watchParent(onExit)
}

// pollParent is the portable fallback: the kernel reparents orphans, so a
// changed ppid means the original parent is gone.
func pollParent(ppid int, onExit func()) {
	ticker := time.NewTicker(parentPollInterval)
	defer ticker.Stop()
	for range ticker.C {
		if os.Getppid() != ppid {
			onExit()
			return
		}
	}
}
