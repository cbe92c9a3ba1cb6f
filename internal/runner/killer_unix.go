//go:build unix

package runner

import (
	"os"
	"os/exec"
	"syscall"
)

// defaultKillSignal is the signal sent on timeout or buffer overflow
// when the caller does not pick one explicitly.
const defaultKillSignal Signal = Signal(syscall.SIGTERM)

var signalNames = map[Signal]string{
	Signal(syscall.SIGHUP):  "SIGHUP",
	Signal(syscall.SIGINT):  "SIGINT",
	Signal(syscall.SIGQUIT): "SIGQUIT",
	Signal(syscall.SIGILL):  "SIGILL",
	Signal(syscall.SIGTRAP): "SIGTRAP",
	Signal(syscall.SIGABRT): "SIGABRT",
	Signal(syscall.SIGBUS):  "SIGBUS",
	Signal(syscall.SIGFPE):  "SIGFPE",
	Signal(syscall.SIGKILL): "SIGKILL",
	Signal(syscall.SIGUSR1): "SIGUSR1",
	Signal(syscall.SIGSEGV): "SIGSEGV",
	Signal(syscall.SIGUSR2): "SIGUSR2",
	Signal(syscall.SIGPIPE): "SIGPIPE",
	Signal(syscall.SIGALRM): "SIGALRM",
	Signal(syscall.SIGTERM): "SIGTERM",
	Signal(syscall.SIGCHLD): "SIGCHLD",
	Signal(syscall.SIGCONT): "SIGCONT",
	Signal(syscall.SIGSTOP): "SIGSTOP",
	Signal(syscall.SIGTSTP): "SIGTSTP",
	Signal(syscall.SIGTTIN): "SIGTTIN",
	Signal(syscall.SIGTTOU): "SIGTTOU",
}

// applyCredentials wires Options.UID/GID into the child's credential
// set.
func applyCredentials(cmd *exec.Cmd, o Options) error {
	if o.UID == nil && o.GID == nil {
		return nil
	}

	attr := sysProcAttr(cmd)
	cred := &syscall.Credential{}
	if o.UID != nil {
		cred.Uid = *o.UID
	}
	if o.GID != nil {
		cred.Gid = *o.GID
	}
	attr.Credential = cred
	return nil
}

// applyProcessGroup places the child in its own process group when
// Detached is set, so a later kill can target the whole group instead
// of just the direct child.
func applyProcessGroup(cmd *exec.Cmd, detached bool) {
	if !detached {
		return
	}
	sysProcAttr(cmd).Setpgid = true
}

// applyWindowsVerbatim is a no-op on Unix; the flag only has meaning
// for Windows' CreateProcess argument quoting.
func applyWindowsVerbatim(cmd *exec.Cmd, verbatim bool) {}

func sysProcAttr(cmd *exec.Cmd) *syscall.SysProcAttr {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	return cmd.SysProcAttr
}

// sendSignal delivers sig to the child, targeting its whole process
// group when it leads one (its pgid equals its pid) so a detached child's
// descendants are reached too.
func sendSignal(pid int, sig Signal) error {
	if pgid, err := syscall.Getpgid(pid); err == nil && pgid == pid {
		return syscall.Kill(-pgid, syscall.Signal(sig))
	}
	return syscall.Kill(pid, syscall.Signal(sig))
}

// isNoSuchProcess reports whether err is the Unix "no such process"
// error, meaning the child is already gone and there is nothing left
// to kill.
func isNoSuchProcess(err error) bool {
	return err == syscall.ESRCH
}

// exitStatusFromState extracts the exit code and terminating signal
// from a finished process's state. Exactly one of the two is
// meaningful: code is -1 if the child was killed by a signal, and sig
// is -1 if it exited normally.
func exitStatusFromState(state *os.ProcessState) (code int, sig int) {
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok {
		return state.ExitCode(), -1
	}
	if ws.Signaled() {
		return -1, int(ws.Signal())
	}
	return ws.ExitStatus(), -1
}
