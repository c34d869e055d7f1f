// Package lint executes the project's linter as an external process,
// streaming its output while it runs. The linter is an external
// collaborator, pagepack only invokes it and acts on the exit status.
package lint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	consolestream "github.com/wolfeidau/console-stream"
)

// ErrLintFailed indicates the linter exited non-zero
var ErrLintFailed = errors.New("lint failed")

// Runner executes one linter invocation.
type Runner struct {
	Command string
	Args    []string
}

// New returns a runner for the given command line.
func New(command string, args []string) *Runner {
	return &Runner{Command: command, Args: args}
}

// Run executes the linter and forwards its output as it is produced. A
// non-zero exit fails the run.
func (r *Runner) Run(ctx context.Context) error {
	log.Info().Str("command", r.Command).Strs("args", r.Args).Msg("Running linter")

	process := consolestream.NewProcess(r.Command, r.Args,
		consolestream.WithPipeMode(),
		consolestream.WithFlushInterval(200*time.Millisecond),
	)

	var lastError error
	for event, err := range process.ExecuteAndStream(ctx) {
		if err != nil {
			lastError = err
			break
		}

		switch e := event.Event.(type) {
		case *consolestream.OutputData:
			_, _ = os.Stdout.Write(e.Data)
		case *consolestream.ProcessEnd:
			if e.ExitCode != 0 {
				return fmt.Errorf("%w: exit code %d", ErrLintFailed, e.ExitCode)
			}
		}
	}

	if lastError != nil {
		return fmt.Errorf("failed to run linter: %w", lastError)
	}

	return nil
}
