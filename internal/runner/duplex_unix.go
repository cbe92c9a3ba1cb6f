//go:build unix

package runner

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// newDuplexPipe creates a connected pair of Unix-domain sockets for a
// stdio slot that is both readable and writable from the parent's
// side. A plain pipe is one-directional; node's libuv implements a
// duplex stdio slot as a socketpair, and this does the same.
func newDuplexPipe() (parent, child *os.File, err error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("socketpair: %w", err)
	}
	return os.NewFile(uintptr(fds[0]), "duplex-parent"),
		os.NewFile(uintptr(fds[1]), "duplex-child"),
		nil
}

// shutdownWrite half-closes f's write direction without closing the
// fd outright, so a duplex socketpair's parent end can still be read
// from after the child has seen EOF on its stdin.
func shutdownWrite(f *os.File) error {
	conn, err := f.SyscallConn()
	if err != nil {
		return err
	}

	var sysErr error
	if ctrlErr := conn.Control(func(fd uintptr) {
		sysErr = unix.Shutdown(int(fd), unix.SHUT_WR)
	}); ctrlErr != nil {
		return ctrlErr
	}
	return sysErr
}
