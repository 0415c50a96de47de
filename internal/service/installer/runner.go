package installer

import (
	"context"
	"errors"
	"os/exec"
)

// Runner launches an external executable with a list of string arguments and
// reports its integer exit code. Arguments are passed as discrete tokens, so
// paths with spaces need no quoting. The call blocks until the process exits.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (int, error)
}

// execRunner drives real processes through os/exec.
type execRunner struct{}

// NewExecRunner returns the default Runner backed by os/exec.
func NewExecRunner() Runner { //nolint:ireturn // Constructor intentionally hides the implementation.
	return execRunner{}
}

// Run executes the command synchronously. A non-zero exit is not an error at
// this layer: the code is returned for the caller to judge. An error means the
// process could not be launched at all.
func (execRunner) Run(ctx context.Context, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return 0, err
}
