package envboot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/envboot/envboot/platform"
)

// Bootstrap creates an isolated Python environment and installs the
// configured dependency set, per cfg. It runs strictly sequentially:
// toolchain resolution, environment creation, dependency installation,
// then a diagnostic package listing. The first failing step aborts the
// run; the returned error is a *StepError wrapping ErrStepFailed.
//
// The returned Report lists every executed step, including a failed final
// one, and is non-nil even on failure. On success the caller owns the
// returned Environment and should Close it; on failure any partially
// created handle has already been closed.
func Bootstrap(ctx context.Context, cfg *Config, opts ...Option) (*Environment, *Report, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("%w: config must not be nil", ErrConfigInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	// Work on a copy so Bootstrap never mutates the caller's Config.
	cfgCopy := deepCopyConfig(cfg)
	if cfgCopy.Manager == ManagerConda && len(cfgCopy.Channels) == 0 {
		cfgCopy.Channels = []string{defaultCondaChannel}
	}

	co := mergeCallOptions(opts...)

	logger := cfgCopy.Logger
	if co.logger != nil {
		logger = co.logger
	}
	if logger == nil {
		logger = slog.Default()
	}

	runner := cfgCopy.Runner
	if co.runner != nil {
		runner = co.runner
	}
	if co.dryRun != nil {
		runner = &DryRunRunner{W: co.dryRun}
	}
	if runner == nil {
		runner = &execRunner{maxOutputBytes: cfgCopy.MaxOutputBytes}
	}

	tc, err := platform.ToolchainFor(cfgCopy.Family)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	if cfgCopy.UniqueEnvName {
		suffix := uniqueSuffix()
		cfgCopy.EnvRoot += "-" + suffix
		cfgCopy.EnvName += "-" + suffix
	}

	stepTimeout := cfgCopy.StepTimeout
	if co.stepTimeout > 0 {
		stepTimeout = co.stepTimeout
	}

	base := os.Environ()
	if len(co.env) > 0 {
		base = append(base, co.env...)
	}

	b := &bootstrapper{
		cfg:         cfgCopy,
		tc:          tc,
		runner:      runner,
		logger:      logger,
		report:      &Report{},
		baseEnv:     base,
		stepTimeout: stepTimeout,
	}

	if !cfgCopy.SkipPreflight {
		preflightIndex(ctx, logger, cfgCopy.Manager)
	}

	env, err := b.run(ctx)
	if err != nil {
		return nil, b.report, err
	}
	return env, b.report, nil
}

// bootstrapper carries the resolved state of one Bootstrap call.
type bootstrapper struct {
	cfg         Config
	tc          platform.Toolchain
	runner      Runner
	logger      *slog.Logger
	report      *Report
	baseEnv     []string
	stepTimeout time.Duration
}

// run dispatches to exactly one package-manager path, then installs the
// dependency set into the created environment. Exhaustive on Manager;
// Validate has already rejected anything else.
func (b *bootstrapper) run(ctx context.Context) (*Environment, error) {
	var env *Environment
	var err error
	switch b.cfg.Manager {
	case ManagerPip:
		env, err = b.pipBootstrap(ctx)
	case ManagerConda:
		env, err = b.condaBootstrap(ctx)
	default:
		err = fmt.Errorf("%w: unknown manager %v", ErrConfigInvalid, b.cfg.Manager)
	}
	if err != nil {
		if env != nil {
			_ = env.Close()
		}
		return nil, err
	}

	if err := b.installDeps(ctx, env); err != nil {
		_ = env.Close()
		return nil, err
	}
	b.listInstalled(ctx, env)
	return env, nil
}

// step runs one bootstrap command with the given process environment,
// records it in the report, and converts failures into *StepError.
func (b *bootstrapper) step(ctx context.Context, name string, environ []string, argv ...string) (*ExecResult, error) {
	if b.stepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.stepTimeout)
		defer cancel()
	}

	b.logger.Info("running bootstrap step", "step", name, "cmd", strings.Join(argv, " "))
	res, err := b.runner.Run(ctx, CommandSpec{Name: argv[0], Args: argv[1:], Env: environ})
	b.report.record(name, argv, res)
	if err != nil {
		return nil, &StepError{Step: name, Args: argv, Err: err}
	}
	if res.ExitCode != 0 {
		return res, &StepError{Step: name, Args: argv, Result: res}
	}
	b.logger.Debug("bootstrap step finished", "step", name, "duration", res.Duration)
	return res, nil
}

// envStep runs one step inside an activated environment.
func (b *bootstrapper) envStep(ctx context.Context, name string, env *Environment, argv ...string) (*ExecResult, error) {
	environ, err := env.Environ()
	if err != nil {
		return nil, err
	}
	return b.step(ctx, name, environ, argv...)
}
