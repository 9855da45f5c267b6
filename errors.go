package envboot

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the envboot package.
var (
	// ErrConfigInvalid indicates the provided configuration failed validation.
	ErrConfigInvalid = errors.New("envboot: invalid configuration")

	// ErrStepFailed indicates a bootstrap step exited non-zero or could not
	// be started. The concrete error is always a *StepError.
	ErrStepFailed = errors.New("envboot: bootstrap step failed")

	// ErrEnvironmentClosed indicates the environment handle has already been
	// released via Close.
	ErrEnvironmentClosed = errors.New("envboot: environment already closed")
)

// StepError is returned when a bootstrap step fails. It wraps ErrStepFailed
// so that errors.Is(err, ErrStepFailed) still works.
type StepError struct {
	// Step is the name of the failed step (e.g., "create-virtualenv").
	Step string

	// Args is the argv of the subprocess, program name first.
	Args []string

	// Result holds the captured output and exit code when the process ran
	// but exited non-zero. Nil if the process could not be started.
	Result *ExecResult

	// Err is the underlying error when the process could not be started.
	Err error
}

func (e *StepError) Error() string {
	cmd := strings.Join(e.Args, " ")
	if e.Err != nil {
		return fmt.Sprintf("%s: step %q (%s): %v", ErrStepFailed.Error(), e.Step, cmd, e.Err)
	}
	if e.Result != nil {
		msg := fmt.Sprintf("%s: step %q (%s): exit code %d", ErrStepFailed.Error(), e.Step, cmd, e.Result.ExitCode)
		if s := strings.TrimSpace(e.Result.Stderr); s != "" {
			msg += ": " + s
		}
		return msg
	}
	return fmt.Sprintf("%s: step %q (%s)", ErrStepFailed.Error(), e.Step, cmd)
}

func (e *StepError) Unwrap() error {
	return ErrStepFailed
}
