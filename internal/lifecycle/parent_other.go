//go:build !linux

package lifecycle

import "os"

func watchParent(onExit func()) {
	ppid := os.Getppid()
	if ppid <= 1 {
		onExit()
		return
	}
	pollParent(ppid, onExit)
}
