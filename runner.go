package envboot

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// CommandSpec describes a single subprocess invocation.
type CommandSpec struct {
	// Name is the program to run, resolved through PATH (the spec's Env
	// PATH, when set).
	Name string

	// Args are the program arguments, not including the program name.
	Args []string

	// Env is the full environment for the process. Nil inherits the
	// current process environment.
	Env []string

	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// argv returns the full command line, program name first.
func (s CommandSpec) argv() []string {
	return append([]string{s.Name}, s.Args...)
}

// Runner executes subprocesses on behalf of the bootstrapper. The production
// implementation shells out via os/exec; tests substitute recording fakes,
// and DryRunRunner prints commands without executing them.
//
// A non-zero exit is reported through ExecResult.ExitCode, not through the
// error return. The error return is reserved for failures to run at all
// (missing binary, cancelled context).
type Runner interface {
	Run(ctx context.Context, spec CommandSpec) (*ExecResult, error)
}

// execRunner is the production Runner backed by os/exec.
type execRunner struct {
	maxOutputBytes int
}

func (r *execRunner) Run(ctx context.Context, spec CommandSpec) (*ExecResult, error) {
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	if spec.Env != nil {
		cmd.Env = spec.Env

		// Resolve the program against the spec's PATH, not the parent's.
		// os/exec looks up the binary before Start applies cmd.Env.
		if path, ok := envLookup(spec.Env, "PATH"); ok {
			if resolved, err := lookPath(spec.Name, path); err == nil {
				cmd.Path = resolved
				cmd.Err = nil
			}
		}
	}
	cmd.Dir = spec.Dir
	return execHelper(cmd, r.maxOutputBytes)
}

// DryRunRunner prints each command to w instead of executing it and reports
// success. Useful for debugging a CI configuration without side effects.
type DryRunRunner struct {
	W io.Writer
}

func (r *DryRunRunner) Run(_ context.Context, spec CommandSpec) (*ExecResult, error) {
	if r.W != nil {
		fmt.Fprintf(r.W, "%s\n", strings.Join(spec.argv(), " "))
	}
	return &ExecResult{ExitCode: 0}, nil
}
