// Package runner drives a single child process synchronously to
// completion: it spawns it, feeds/drains its stdio, enforces an
// optional timeout and output cap, and returns one aggregate Result
// describing exit status, terminating signal, captured output, and
// the first fatal error encountered.
//
// There is no asynchronous API: Run blocks the calling goroutine
// until the child has exited and every handle it owns has been
// closed. This mirrors Node.js's child_process.spawnSync, which this
// package's data model and lifecycle states are lifted from.
package runner

import (
	"context"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// lifecycle tracks whether the Runner has been run yet and whether
// its handles have all been closed.
type lifecycle int

const (
	lifecycleUninitialized lifecycle = iota
	lifecycleInitialized
	lifecycleHandlesClosed
)

// Runner orchestrates one synchronous child-process run. It is
// single-use: construct a fresh Runner per call to Run. Resetting its
// internal state for reuse would be both more code and more risk than
// building a new struct.
type Runner struct {
	rawOpts Options
	opts    parsedOptions

	pipes      []*stdioPipe
	childFiles []*os.File // parent's copy of every child-side fd; closed once Start has been attempted
	cmd        *exec.Cmd

	killTimer   *time.Timer
	killTimerMu sync.Mutex

	killed   atomic.Bool
	killOnce sync.Once

	bufferedOutputSize atomic.Int64

	exitStatus int // -1 until set
	termSignal int // -1 until set

	errMu   sync.Mutex
	err     error
	pipeErr error

	spawned bool

	state lifecycle
	ran   atomic.Bool

	log *zap.Logger
}

// New constructs a Runner for opts. The Runner does nothing until
// Run is called.
func New(opts Options, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		rawOpts:    opts,
		exitStatus: -1,
		termSignal: -1,
		log:        log.Named("runner"),
	}
}

// Run executes the child process to completion and returns the
// aggregate result. It never returns a non-nil error itself for
// anything the Result can describe instead — the returned error is
// reserved for programmer errors like calling Run twice.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if !r.ran.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRun
	}

	r.state = lifecycleInitialized
	defer r.teardown()

	parsed, err := parseOptions(r.rawOpts)
	if err != nil {
		r.setErr(err)
		return r.buildResult(), nil
	}
	r.opts = parsed
	r.cmd = parsed.cmd

	pipes, childFiles, err := r.wireStdio()
	if err != nil {
		r.setErr(err)
		return r.buildResult(), nil
	}
	r.pipes = pipes
	r.childFiles = childFiles

	if parsed.timeout > 0 {
		r.startKillTimer(parsed.timeout)
	}

	if err := r.cmd.Start(); err != nil {
		r.setErr(err)
		return r.buildResult(), nil
	}
	r.spawned = true
	r.log.Debug("spawned child", zap.Int("pid", r.cmd.Process.Pid))

	// Close the parent's copy of every child-side fd now: os/exec never
	// closes a caller-supplied *os.File on its own, so without this the
	// write end of every capture pipe would stay open in the parent
	// too, and its read pump would never see a real EOF no matter how
	// long the child has been gone.
	r.closeChildFiles()

	for _, p := range r.pipes {
		if p != nil {
			p.start()
		}
	}

	waitErr := r.cmd.Wait()
	r.onExit(waitErr)

	// Wait returning only means the child has exited, not that every
	// pump has finished copying its remaining buffered output into the
	// block chain. Close and join every pipe now, before reading any of
	// it back in buildResult; leaving this to the deferred teardown
	// would read the chains while pumpRead is still writing to them.
	r.closePipes()

	// The context is only checked here, after the child has exited; it
	// never kills the child. A context that is already done is recorded
	// as the Runner's error only when neither an exit status nor a
	// terminating signal was collected.
	select {
	case <-ctx.Done():
		if r.exitStatus < 0 && r.termSignal < 0 {
			r.setErr(ctx.Err())
		}
	default:
	}

	return r.buildResult(), nil
}

// onExit records the child's exit status or terminating signal and
// stops the kill timer, since the pipes will now close on their own
// EOFs or be closed during teardown.
func (r *Runner) onExit(waitErr error) {
	if r.cmd.ProcessState == nil {
		// The process never started; a spawn-level error was already
		// recorded at the call site.
		return
	}

	code, sig := exitStatusFromState(r.cmd.ProcessState)
	r.exitStatus = code
	r.termSignal = sig

	r.stopKillTimer()

	if waitErr != nil && code < 0 && sig < 0 {
		// Wait failed for a reason other than a normal/signaled exit
		// (e.g. I/O error on one of the raw fds we handed the
		// child) — surface it as a pipe-level error, since it is a
		// consequence of process plumbing, not a control failure.
		r.notePipeError(waitErr)
	}
}

// startKillTimer installs the timer that fires onKillTimer if the
// child has not exited within timeout. Go's timers never keep a
// goroutine or the process alive by existing, so there is nothing
// equivalent to libuv's ref/unref needed here; stopKillTimer plus the
// errMu-guarded fields the callback writes through are enough to
// ensure no in-flight timer callback races with Result assembly.
func (r *Runner) startKillTimer(timeout time.Duration) {
	r.killTimerMu.Lock()
	defer r.killTimerMu.Unlock()
	r.killTimer = time.AfterFunc(timeout, r.onKillTimer)
}

func (r *Runner) stopKillTimer() {
	r.killTimerMu.Lock()
	defer r.killTimerMu.Unlock()
	if r.killTimer != nil {
		r.killTimer.Stop()
	}
}

// onKillTimer fires when the child has outlived its timeout.
func (r *Runner) onKillTimer() {
	r.setErr(ErrTimeout)
	r.kill()
}

// noteOutputIncrement is called by a pipe's read pump after each
// successful read; it kills the child once the combined output across
// all pipes exceeds MaxBuffer.
func (r *Runner) noteOutputIncrement(n int64) {
	total := r.bufferedOutputSize.Add(n)
	if r.opts.maxBuffer > 0 && total > r.opts.maxBuffer {
		r.kill()
	}
}

// notePipeError records a pipe-level I/O error in the low-priority
// slot; it never overwrites an error already recorded there.
func (r *Runner) notePipeError(err error) {
	r.errMu.Lock()
	if r.pipeErr == nil {
		r.pipeErr = err
	}
	r.errMu.Unlock()
}

func (r *Runner) setErr(err error) {
	r.errMu.Lock()
	if r.err == nil {
		r.err = err
	}
	r.errMu.Unlock()
}

// kill is the idempotent kill policy: send the configured signal, and
// on any failure other than "no such process" record the error and
// resend the same signal exactly once. It does not escalate to
// SIGKILL; see DESIGN.md for the reasoning.
func (r *Runner) kill() {
	r.killOnce.Do(func() {
		r.killed.Store(true)

		if r.cmd == nil || r.cmd.Process == nil {
			return
		}

		sig := r.opts.killSignal
		pid := r.cmd.Process.Pid

		if err := sendSignal(pid, sig); err != nil && !isNoSuchProcess(err) {
			r.setErr(err)
			sendSignal(pid, sig) //nolint:errcheck // best-effort retry
		}

		r.stopKillTimer()
	})
}

// buildResult assembles the Result from the Runner's final state.
func (r *Runner) buildResult() *Result {
	res := &Result{}

	r.errMu.Lock()
	if r.err != nil {
		res.Error = r.err
	} else if r.pipeErr != nil {
		res.Error = r.pipeErr
	}
	r.errMu.Unlock()

	if r.exitStatus >= 0 {
		status := r.exitStatus
		res.Status = &status
	}

	if r.termSignal > 0 {
		name := Signal(r.termSignal).String()
		res.Signal = &name
	}

	if r.spawned {
		output := make([][]byte, len(r.pipes))
		for i, p := range r.pipes {
			if p != nil && p.writable {
				output[i] = p.bytes()
			}
		}
		res.Output = output
	}

	return res
}

// closePipes closes every pipe and joins its pump goroutine. Safe to
// call more than once: stdioPipe.close is itself a no-op past the
// first call, so this is both the explicit drain-before-buildResult
// step in Run and the defensive cleanup in teardown for every
// early-return path (a parse, wiring, or spawn failure) that never
// reached it.
func (r *Runner) closePipes() {
	for _, p := range r.pipes {
		if p != nil {
			p.close()
		}
	}
}

// closeChildFiles closes the parent's copy of every child-side fd.
// Calling os.File.Close twice returns an error the second time, which
// this ignores, so it is safe to call both right after a successful
// Start (the normal case) and again, defensively, from teardown — the
// latter is what actually closes them if Start itself failed, since
// that path returns before the explicit call in Run is reached.
func (r *Runner) closeChildFiles() {
	closeFiles(r.childFiles)
}

// teardown always runs once Run is entered, regardless of how it
// exits: close every child-side fd and pipe still open, and stop the
// kill timer.
func (r *Runner) teardown() {
	r.state = lifecycleHandlesClosed
	r.closeChildFiles()
	r.closePipes()
	r.stopKillTimer()
}
