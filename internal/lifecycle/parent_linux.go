//go:build linux

package lifecycle

import (
	"os"

	"golang.org/x/sys/unix"
)

// watchParent blocks on a pidfd for the parent, which becomes readable when
// the parent exits. Older kernels without pidfd_open fall back to polling.
func watchParent(onExit func()) {
	ppid := os.Getppid()
	if ppid <= 1 {
		onExit()
		return
	}

	fd, err := unix.PidfdOpen(ppid, 0)
	if err != nil {
		pollParent(ppid, onExit)
		return
	}
	defer unix.Close(fd)

	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		if _, err := unix.Poll(fds, -1); err != unix.EINTR {
			break
		}
	}
	onExit()
}
