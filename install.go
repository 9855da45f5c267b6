package envboot

import (
	"context"
	"strings"
)

// installDeps installs the dependency set into env with a single install
// invocation: runtime specifiers first, then test specifiers, in order,
// with upgrade-if-needed semantics. An empty set skips the step.
func (b *bootstrapper) installDeps(ctx context.Context, env *Environment) error {
	specs := make([]string, 0, len(b.cfg.RuntimeDeps)+len(b.cfg.TestDeps))
	specs = append(specs, b.cfg.RuntimeDeps...)
	specs = append(specs, b.cfg.TestDeps...)
	if len(specs) == 0 {
		b.logger.Info("no dependencies configured, skipping install")
		return nil
	}

	var err error
	switch b.cfg.Manager {
	case ManagerPip:
		argv := append([]string{b.tc.Pip, "install", "--upgrade"}, specs...)
		_, err = b.envStep(ctx, "install-deps", env, argv...)
	case ManagerConda:
		argv := append([]string{condaExe, "install", "-y", "-n", env.Name()}, specs...)
		_, err = b.step(ctx, "install-deps", b.baseEnv, argv...)
	}
	return err
}

// listInstalled lists the environment's installed packages for the build
// log. Purely diagnostic: failures are logged at warn level and never fail
// the job.
func (b *bootstrapper) listInstalled(ctx context.Context, env *Environment) {
	var argv []string
	environ := b.baseEnv
	switch b.cfg.Manager {
	case ManagerPip:
		argv = []string{b.tc.Pip, "list"}
		e, err := env.Environ()
		if err != nil {
			b.logger.Warn("package listing skipped", "error", err)
			return
		}
		environ = e
	case ManagerConda:
		argv = []string{condaExe, "list", "-n", env.Name()}
	}

	res, err := b.runner.Run(ctx, CommandSpec{Name: argv[0], Args: argv[1:], Env: environ})
	b.report.record("list-installed", argv, res)
	if err != nil {
		b.logger.Warn("package listing failed", "error", err)
		return
	}
	if res.ExitCode != 0 {
		b.logger.Warn("package listing failed", "exit_code", res.ExitCode, "stderr", strings.TrimSpace(res.Stderr))
		return
	}
	b.logger.Info("installed packages", "packages", strings.TrimSpace(res.Stdout))
}
