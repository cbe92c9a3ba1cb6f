package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions_RequiresFile(t *testing.T) {
	_, err := parseOptions(Options{})
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestParseOptions_PreservesArgv0Convention(t *testing.T) {
	p, err := parseOptions(Options{
		File: "/bin/echo",
		Args: []string{"custom-name", "a", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"custom-name", "a", "b"}, p.cmd.Args)
}

func TestParseOptions_DefaultsArgsToFile(t *testing.T) {
	p, err := parseOptions(Options{File: "/bin/echo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/bin/echo"}, p.cmd.Args)
}

func TestParseOptions_RejectsNegativeTimeout(t *testing.T) {
	_, err := parseOptions(Options{File: "/bin/echo", Timeout: -1})
	assert.Error(t, err)
}

func TestParseOptions_RejectsNegativeMaxBuffer(t *testing.T) {
	_, err := parseOptions(Options{File: "/bin/echo", MaxBuffer: -1})
	assert.Error(t, err)
}

func TestParseOptions_RejectsNegativeKillSignal(t *testing.T) {
	_, err := parseOptions(Options{File: "/bin/echo", KillSignal: -1})
	assert.ErrorIs(t, err, ErrInvalidKillSignal)
}

func TestParseOptions_ZeroKillSignalUsesDefault(t *testing.T) {
	p, err := parseOptions(Options{File: "/bin/echo"})
	require.NoError(t, err)
	assert.Equal(t, defaultKillSignal, p.killSignal)
}

func TestParseStdioSlot_IgnoreSlot(t *testing.T) {
	sc, err := parseStdioSlot(StdioSlot{Type: StdioIgnore})
	require.NoError(t, err)
	assert.Equal(t, StdioIgnore, sc.typ)
}

func TestParseStdioSlot_PipeRequiresADirection(t *testing.T) {
	_, err := parseStdioSlot(StdioSlot{Type: StdioPipe})
	assert.ErrorIs(t, err, ErrInvalidStdioSlot)
}

func TestParseStdioSlot_InputOnlyKeptWhenReadable(t *testing.T) {
	sc, err := parseStdioSlot(StdioSlot{Type: StdioPipe, Writable: true, Input: []byte("ignored")})
	require.NoError(t, err)
	assert.Nil(t, sc.input)
}

func TestParseStdioSlot_InheritRequiresFD(t *testing.T) {
	_, err := parseStdioSlot(StdioSlot{Type: StdioInherit})
	assert.ErrorIs(t, err, ErrInvalidStdioSlot)
}

func TestParseStdioSlot_UnknownType(t *testing.T) {
	_, err := parseStdioSlot(StdioSlot{Type: StdioType(99)})
	assert.ErrorIs(t, err, ErrUnknownStdioType)
}
