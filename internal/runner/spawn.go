package runner

import (
	"fmt"
	"os"
	"os/exec"
)

// wireStdio allocates the OS-level pipe for every StdioPipe slot,
// assigns the child-side end to cmd's Stdin/Stdout/Stderr/ExtraFiles,
// and returns one *stdioPipe per fd (nil for ignore/inherit slots)
// plus the child-side *os.File assigned for each fd, indexed the same
// way as the stdio array. The caller is responsible for closing every
// non-nil entry of that second slice once Start has been attempted
// (see Runner.closeChildFiles): os/exec only closes the handles it
// opens on its own account, never a caller-supplied *os.File, so these
// would otherwise stay open in the parent for the Runner's lifetime.
func (r *Runner) wireStdio() ([]*stdioPipe, []*os.File, error) {
	stdio := r.opts.stdio
	pipes := make([]*stdioPipe, len(stdio))

	// files[i] holds the child-side *os.File for fd i, or nil to mean
	// "use the null device" for fd 0-2 (os/exec's own default) or "a
	// freshly opened null device" for fd >= 3 (ExtraFiles has no such
	// default and must stay contiguous).
	files := make([]*os.File, len(stdio))

	// owned collects only the files this call itself opened (pipe ends,
	// null devices) so a failure partway through can close exactly
	// those and nothing the caller still owns (an inherited fd is left
	// alone on error; Run never reached Start, so ownership never
	// transferred).
	var owned []*os.File

	for i, cfg := range stdio {
		switch cfg.typ {
		case StdioIgnore:
			if i >= 3 {
				f, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
				if err != nil {
					closeFiles(owned)
					return nil, nil, fmt.Errorf("stdio[%d]: open null device: %w", i, err)
				}
				files[i] = f
				owned = append(owned, f)
			}
		case StdioInherit:
			// The child inherits its own dup of this fd at fork/exec
			// time, but os/exec never closes a caller-supplied
			// *os.File itself. The Runner closes its own copy in
			// closeChildFiles once Start has been attempted; the
			// caller must not use cfg.fd again after calling Run.
			files[i] = cfg.fd
		case StdioPipe:
			parentFile, childFile, err := newPipe(cfg)
			if err != nil {
				closeFiles(owned)
				return nil, nil, fmt.Errorf("stdio[%d]: %w", i, err)
			}
			p := newStdioPipe(r, cfg, parentFile)
			p.initialize()
			pipes[i] = p
			files[i] = childFile
			owned = append(owned, parentFile, childFile)
		}
	}

	assignCmdFiles(r.opts.cmd, files)

	return pipes, files, nil
}

// closeFiles closes every non-nil file in files, ignoring errors; used
// both for wireStdio's own error cleanup and, via Runner.closeChildFiles,
// to close the parent's copy of every child-side fd after Start.
func closeFiles(files []*os.File) {
	for _, f := range files {
		if f != nil {
			f.Close()
		}
	}
}

// newPipe creates the OS handle for one pipe slot and returns the
// parent-side and child-side ends. A duplex slot (both readable and
// writable) needs a genuinely bidirectional channel, which a plain
// OS pipe cannot provide on a single fd; that case is handled by the
// platform-specific newDuplexPipe.
func newPipe(cfg stdioConfig) (parent, child *os.File, err error) {
	if cfg.readable && cfg.writable {
		return newDuplexPipe()
	}
	if cfg.readable {
		// parent writes into the child: os.Pipe()'s read end goes to
		// the child, the write end stays with the parent.
		r, w, err := os.Pipe()
		if err != nil {
			return nil, nil, err
		}
		return w, r, nil
	}
	// writable: parent reads the child's output.
	r, w, err := os.Pipe()
	if err != nil {
		return nil, nil, err
	}
	return r, w, nil
}

// assignCmdFiles maps the per-fd child-side files onto cmd's
// Stdin/Stdout/Stderr fields (fd 0-2) and ExtraFiles (fd >= 3, which
// os/exec requires to be contiguous starting at fd 3). A nil file for
// fd 0-2 means "leave it unset", which os/exec itself maps to the
// null device; a nil file for fd >= 3 is filled with an explicit
// null-device file by wireStdio, since ExtraFiles has no such
// default.
func assignCmdFiles(cmd *exec.Cmd, files []*os.File) {
	for i, f := range files {
		switch {
		case i == 0:
			if f != nil {
				cmd.Stdin = f
			}
		case i == 1:
			if f != nil {
				cmd.Stdout = f
			}
		case i == 2:
			if f != nil {
				cmd.Stderr = f
			}
		default:
			cmd.ExtraFiles = append(cmd.ExtraFiles, f)
		}
	}
}
