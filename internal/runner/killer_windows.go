//go:build windows

package runner

import (
	"os"
	"os/exec"
	"syscall"
)

// defaultKillSignal is the only signal value this build ever produces;
// Windows has no signal delivery, so "sending SIGTERM" really means
// TerminateProcess.
const defaultKillSignal Signal = 15

var signalNames = map[Signal]string{
	defaultKillSignal: "SIGTERM",
	9:                 "SIGKILL",
}

func applyCredentials(cmd *exec.Cmd, o Options) error {
	if o.UID != nil || o.GID != nil {
		return ErrUnsupportedOption
	}
	return nil
}

func applyProcessGroup(cmd *exec.Cmd, detached bool) {
	if !detached {
		return
	}
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= createNewProcessGroup
}

func applyWindowsVerbatim(cmd *exec.Cmd, verbatim bool) {
	if !verbatim {
		return
	}
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CmdLine = joinArgsVerbatim(cmd.Args)
}

// createNewProcessGroup mirrors windows.CREATE_NEW_PROCESS_GROUP
// without importing golang.org/x/sys/windows for a single constant.
const createNewProcessGroup = 0x00000200

func joinArgsVerbatim(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}

// sendSignal on Windows has no real signal delivery; any nonzero
// signal terminates the process outright.
func sendSignal(pid int, sig Signal) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}

func isNoSuchProcess(err error) bool {
	return false
}

// exitStatusFromState extracts the exit code from a finished
// process's state. Windows has no signal delivery, so the signal slot
// is always unused.
func exitStatusFromState(state *os.ProcessState) (code int, sig int) {
	return state.ExitCode(), -1
}
