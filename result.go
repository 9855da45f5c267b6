package envboot

import "time"

// ExecResult holds the outcome of a single subprocess execution.
type ExecResult struct {
	// ExitCode is the process exit code. 0 indicates success.
	ExitCode int

	// Stdout contains the captured standard output of the process.
	Stdout string

	// Stderr contains the captured standard error of the process.
	Stderr string

	// Duration is the wall-clock time the process took to execute.
	Duration time.Duration

	// Truncated indicates whether the output was truncated due to size limits.
	Truncated bool
}

// StepResult records one executed bootstrap step.
type StepResult struct {
	// Name identifies the step (e.g., "python-version", "install-deps").
	Name string

	// Args is the argv of the subprocess, program name first.
	Args []string

	// Result is the execution outcome. Nil if the process could not be started.
	Result *ExecResult
}

// Report is the transcript of a bootstrap run: every step that was executed,
// in order, including a failed final step. Diagnostic steps (version prints,
// package listings) appear alongside the effectful ones.
type Report struct {
	// Steps lists the executed steps in execution order.
	Steps []StepResult
}

// record appends a step to the report.
func (r *Report) record(name string, args []string, res *ExecResult) {
	r.Steps = append(r.Steps, StepResult{Name: name, Args: args, Result: res})
}

// Last returns the most recently executed step, or nil if none ran.
func (r *Report) Last() *StepResult {
	if len(r.Steps) == 0 {
		return nil
	}
	return &r.Steps[len(r.Steps)-1]
}
