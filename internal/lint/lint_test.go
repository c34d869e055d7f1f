package lint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run(t *testing.T) {
	runner := New("sh", []string{"-c", "echo no problems found"})
	require.NoError(t, runner.Run(context.Background()))
}

func TestRunner_Run_NonZeroExit(t *testing.T) {
	runner := New("sh", []string{"-c", "echo 2 problems >&2; exit 2"})

	err := runner.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLintFailed)
	assert.Contains(t, err.Error(), "exit code 2")
}

func TestRunner_Run_MissingCommand(t *testing.T) {
	runner := New("pagepack-no-such-linter", nil)

	err := runner.Run(context.Background())
	require.Error(t, err)
}
