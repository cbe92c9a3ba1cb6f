package runner

import "errors"

var (
	// ErrTimeout is recorded when the kill timer fires before the
	// child exits on its own.
	ErrTimeout = errors.New("runner: timed out waiting for child to exit")

	// ErrMissingFile is an option error: file is required.
	ErrMissingFile = errors.New("runner: file is required")

	// ErrUnknownStdioType is an option error: an unrecognized stdio
	// slot type was supplied.
	ErrUnknownStdioType = errors.New("runner: unknown stdio slot type")

	// ErrInvalidStdioSlot is an option error: a stdio slot is missing
	// a field required by its type.
	ErrInvalidStdioSlot = errors.New("runner: invalid stdio slot")

	// ErrInvalidKillSignal is an option error: KillSignal was set to
	// a negative value; zero means "use the default".
	ErrInvalidKillSignal = errors.New("runner: kill signal must not be negative")

	// ErrAlreadyRun is returned by Run on a Runner that has already
	// run once. A Runner is single-use.
	ErrAlreadyRun = errors.New("runner: already run")

	// ErrUnsupportedOption is returned when an option recognized by
	// the parser has no meaning on the current platform (e.g. uid/gid
	// on Windows).
	ErrUnsupportedOption = errors.New("runner: option not supported on this platform")
)
