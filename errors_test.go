package envboot

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestStepErrorMessage verifies the message carries the step name, command
// line, and exit code or underlying error.
func TestStepErrorMessage(t *testing.T) {
	exitErr := &StepError{
		Step:   "create-virtualenv",
		Args:   []string{"python3", "-m", "virtualenv", "/home/ci/testenv"},
		Result: &ExecResult{ExitCode: 2, Stderr: "no module named virtualenv"},
	}
	msg := exitErr.Error()
	for _, want := range []string{"create-virtualenv", "python3 -m virtualenv", "exit code 2", "no module named virtualenv"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}

	startErr := &StepError{
		Step: "python-version",
		Args: []string{"python3", "--version"},
		Err:  errors.New("executable file not found"),
	}
	if !strings.Contains(startErr.Error(), "executable file not found") {
		t.Errorf("message %q missing underlying error", startErr.Error())
	}
}

// TestStepErrorUnwrap verifies errors.Is works through wrapping.
func TestStepErrorUnwrap(t *testing.T) {
	var err error = &StepError{Step: "install-deps", Args: []string{"pip3", "install"}}
	if !errors.Is(err, ErrStepFailed) {
		t.Error("StepError should wrap ErrStepFailed")
	}

	wrapped := fmt.Errorf("bootstrap: %w", err)
	var stepErr *StepError
	if !errors.As(wrapped, &stepErr) {
		t.Error("errors.As should find the StepError through wrapping")
	}
}
