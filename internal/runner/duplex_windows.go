//go:build windows

package runner

import (
	"fmt"
	"os"
)

// newDuplexPipe has no portable Windows implementation backed by a
// plain anonymous pipe (those are one-directional); a stdio slot that
// is both readable and writable is unsupported on this platform.
func newDuplexPipe() (parent, child *os.File, err error) {
	return nil, nil, fmt.Errorf("%w: duplex stdio slot", ErrUnsupportedOption)
}

// shutdownWrite is never reached on this platform: newDuplexPipe
// always fails, so no stdioPipe is ever both readable and writable
// here. Defined only so pipe.go's shared pumpWrite compiles.
func shutdownWrite(f *os.File) error {
	return f.Close()
}
