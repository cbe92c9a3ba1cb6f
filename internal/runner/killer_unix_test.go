//go:build unix

package runner

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal_StringKnownSignal(t *testing.T) {
	assert.Equal(t, "SIGTERM", Signal(syscall.SIGTERM).String())
}

func TestSignal_StringUnknownSignal(t *testing.T) {
	assert.Equal(t, "unknown", Signal(999).String())
}

func TestIsNoSuchProcess(t *testing.T) {
	assert.True(t, isNoSuchProcess(syscall.ESRCH))
	assert.False(t, isNoSuchProcess(syscall.EPERM))
}
