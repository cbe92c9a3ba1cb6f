package runner

// Result is the aggregate outcome of one Run call.
type Result struct {
	// Error is the prioritized error: the Runner's own control-level
	// error if set, else the first pipe-level error. Nil if the run
	// was entirely clean.
	Error error

	// Status is the child's exit code, or nil if it never started or
	// was terminated by a signal instead of exiting normally.
	Status *int

	// Signal is the name of the signal that terminated the child
	// (e.g. "SIGTERM"), or nil if it exited normally or never
	// started.
	Signal *string

	// Output holds one entry per stdio slot; entry i is the captured
	// bytes if slot i was a writable pipe, else nil. The whole slice
	// is nil if the child never started.
	Output [][]byte
}
