package runner

import (
	"fmt"
	"os"
	"os/exec"
	"time"
)

// StdioType selects how a single child file descriptor is wired up.
type StdioType int

const (
	// StdioIgnore discards the slot; the child's fd is connected to
	// the null device (by os/exec for fd 0-2, by wireStdio for fd >= 3).
	StdioIgnore StdioType = iota
	// StdioPipe opens an OS pipe (or socketpair, for a duplex slot)
	// for the slot.
	StdioPipe
	// StdioInherit hands the child a parent fd verbatim.
	StdioInherit
)

// StdioSlot describes how one child file descriptor is wired up.
type StdioSlot struct {
	Type StdioType

	// Readable and Writable are parent-side directions: Readable
	// means the parent writes Input into the child; Writable means
	// the parent reads the child's output. Only meaningful when
	// Type == StdioPipe.
	Readable bool
	Writable bool

	// Input is the byte slice written to the child when Readable is
	// set. May be empty (a pipe is still opened and immediately
	// half-closed) but must not be mutated after Run is called.
	Input []byte

	// FD is the parent file descriptor to inherit into this slot. Only
	// meaningful when Type == StdioInherit. Run takes ownership of it:
	// the Runner, not os/exec, closes its own copy once Start has been
	// attempted (os/exec never closes a caller-supplied *os.File on its
	// own), so callers that need to keep their own copy open (e.g.
	// os.Stdout) must pass a dup, not the original.
	FD *os.File
}

// Options is the caller-supplied description of the child process to
// run.
type Options struct {
	// File is the executable path. Required.
	File string

	// Args is the argv vector; by convention Args[0] is the program
	// name handed to the child, matching argv[0] semantics. An empty
	// Args is not rejected: the child's argv is then just [File].
	Args []string

	// Cwd is the child's working directory. Empty means inherit the
	// parent's.
	Cwd string

	// Env is the child's environment as KEY=VALUE pairs. Nil means
	// inherit the parent's environment.
	Env []string

	// UID and GID set the child's credentials (Unix only). Nil means
	// inherit the parent's.
	UID *uint32
	GID *uint32

	// Detached places the child in its own process group.
	Detached bool

	// WindowsVerbatimArguments disables Go's argument-quoting on
	// Windows, passing Args through to CreateProcess verbatim.
	WindowsVerbatimArguments bool

	// Timeout is the wall-clock budget before the kill timer fires.
	// Zero means no timeout.
	Timeout time.Duration

	// MaxBuffer caps the total bytes captured across all writable
	// pipes. Zero means unlimited.
	MaxBuffer int64

	// KillSignal is the signal sent on timeout or buffer overflow.
	// Zero means the default (SIGTERM).
	KillSignal Signal

	// Stdio is one slot per child fd, in fd order. Required, and must
	// have at least 3 entries to cover stdin/stdout/stderr, though
	// the parser does not itself enforce a minimum length beyond 0.
	Stdio []StdioSlot
}

// parsedOptions is the validated, self-contained form of Options: an
// *exec.Cmd (which owns its own copies of argv/env/cwd, decoupled from
// any caller-owned memory) plus one stdioConfig per fd.
type parsedOptions struct {
	cmd        *exec.Cmd
	stdio      []stdioConfig
	killSignal Signal
	timeout    time.Duration
	maxBuffer  int64
}

// stdioConfig is the parsed, validated form of a StdioSlot.
type stdioConfig struct {
	typ      StdioType
	readable bool
	writable bool
	input    []byte
	fd       *os.File
}

// parseOptions validates opts and builds the spawn descriptor. On
// error it returns a zero parsedOptions; the caller must not spawn.
func parseOptions(o Options) (parsedOptions, error) {
	if o.File == "" {
		return parsedOptions{}, ErrMissingFile
	}

	cmd := exec.Command(o.File)
	if len(o.Args) > 0 {
		// exec.Command sets cmd.Args[0] from o.File; honor the
		// caller's own argv[0] convention instead.
		cmd.Args = append([]string{o.Args[0]}, o.Args[1:]...)
	} else {
		cmd.Args = []string{o.File}
	}

	cmd.Dir = o.Cwd
	if o.Env != nil {
		cmd.Env = o.Env
	}

	if err := applyCredentials(cmd, o); err != nil {
		return parsedOptions{}, err
	}

	applyProcessGroup(cmd, o.Detached)
	applyWindowsVerbatim(cmd, o.WindowsVerbatimArguments)

	stdio := make([]stdioConfig, len(o.Stdio))
	for i, slot := range o.Stdio {
		sc, err := parseStdioSlot(slot)
		if err != nil {
			return parsedOptions{}, fmt.Errorf("stdio[%d]: %w", i, err)
		}
		stdio[i] = sc
	}

	killSignal := o.KillSignal
	if killSignal == 0 {
		killSignal = defaultKillSignal
	} else if killSignal < 0 {
		return parsedOptions{}, ErrInvalidKillSignal
	}

	if o.Timeout < 0 {
		return parsedOptions{}, fmt.Errorf("runner: timeout must be >= 0")
	}
	if o.MaxBuffer < 0 {
		return parsedOptions{}, fmt.Errorf("runner: maxBuffer must be >= 0")
	}

	return parsedOptions{
		cmd:        cmd,
		stdio:      stdio,
		killSignal: killSignal,
		timeout:    o.Timeout,
		maxBuffer:  o.MaxBuffer,
	}, nil
}

func parseStdioSlot(slot StdioSlot) (stdioConfig, error) {
	switch slot.Type {
	case StdioIgnore:
		return stdioConfig{typ: StdioIgnore}, nil
	case StdioPipe:
		if !slot.Readable && !slot.Writable {
			return stdioConfig{}, fmt.Errorf("%w: pipe slot must be readable, writable, or both", ErrInvalidStdioSlot)
		}
		var input []byte
		if slot.Readable {
			input = slot.Input
		}
		return stdioConfig{
			typ:      StdioPipe,
			readable: slot.Readable,
			writable: slot.Writable,
			input:    input,
		}, nil
	case StdioInherit:
		if slot.FD == nil {
			return stdioConfig{}, fmt.Errorf("%w: inherit slot requires fd", ErrInvalidStdioSlot)
		}
		return stdioConfig{typ: StdioInherit, fd: slot.FD}, nil
	default:
		return stdioConfig{}, ErrUnknownStdioType
	}
}
