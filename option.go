package envboot

import (
	"io"
	"log/slog"
	"time"
)

// Option configures a single Bootstrap call.
type Option func(*callOptions)

// callOptions holds per-call configuration applied via Option functions.
type callOptions struct {
	runner      Runner
	logger      *slog.Logger
	env         []string
	stepTimeout time.Duration
	dryRun      io.Writer
}

// mergeCallOptions applies per-call Option functions and returns the result.
func mergeCallOptions(opts ...Option) *callOptions {
	co := &callOptions{}
	for _, opt := range opts {
		opt(co)
	}
	return co
}

// WithRunner overrides the subprocess runner for a single call.
// Tests use this to inject recording fakes.
func WithRunner(r Runner) Option {
	return func(o *callOptions) {
		o.runner = r
	}
}

// WithLogger overrides the logger for a single call.
func WithLogger(l *slog.Logger) Option {
	return func(o *callOptions) {
		o.logger = l
	}
}

// WithEnv adds environment variables to every step of a single call.
// Each entry should be in "KEY=VALUE" format.
func WithEnv(env ...string) Option {
	cpy := append([]string(nil), env...)
	return func(o *callOptions) {
		o.env = append(o.env, cpy...)
	}
}

// WithStepTimeout bounds each individual step for a single call,
// overriding Config.StepTimeout.
func WithStepTimeout(d time.Duration) Option {
	return func(o *callOptions) {
		o.stepTimeout = d
	}
}

// WithDryRun prints every command to w instead of executing it.
// It takes precedence over WithRunner and Config.Runner.
func WithDryRun(w io.Writer) Option {
	return func(o *callOptions) {
		o.dryRun = w
	}
}
