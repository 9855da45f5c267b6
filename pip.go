package envboot

import (
	"context"
	"path/filepath"

	"github.com/envboot/envboot/internal/envutil"
	"github.com/envboot/envboot/platform"
)

// pipBootstrap creates a virtualenv at cfg.EnvRoot, strictly ordered:
// version prints (diagnostic), virtualenv self-upgrade, environment
// creation, activation. On Windows the Python runtime is provisioned first
// because build agents do not preinstall it.
func (b *bootstrapper) pipBootstrap(ctx context.Context) (*Environment, error) {
	if b.cfg.Family == platform.Windows {
		if err := b.provisionWindowsRuntime(ctx); err != nil {
			return nil, err
		}
	}

	if _, err := b.step(ctx, "python-version", b.baseEnv, b.tc.Python, "--version"); err != nil {
		return nil, err
	}
	if _, err := b.step(ctx, "pip-version", b.baseEnv, b.tc.Pip, "--version"); err != nil {
		return nil, err
	}

	if _, err := b.step(ctx, "upgrade-virtualenv", b.baseEnv,
		b.tc.Pip, "install", "--upgrade", "virtualenv"); err != nil {
		return nil, err
	}

	argv := []string{b.tc.Python, "-m", "virtualenv"}
	if b.cfg.SystemSitePackages {
		argv = append(argv, "--system-site-packages")
	}
	argv = append(argv, b.cfg.EnvRoot)
	if _, err := b.step(ctx, "create-virtualenv", b.baseEnv, argv...); err != nil {
		return nil, err
	}

	env := newPipEnvironment(b.cfg.EnvRoot, b.tc, b.baseEnv)

	// With the environment active, the toolchain must resolve inside it,
	// not to the system installation.
	if _, err := b.envStep(ctx, "verify-env-python", env, b.tc.Python, "--version"); err != nil {
		return env, err
	}
	return env, nil
}

// provisionWindowsRuntime installs the Python runtime via chocolatey and
// prepends the discovered install root and its Scripts directory to the
// search path of all subsequent steps. Discovery goes through the registry;
// when that fails (e.g., an agent with Python already on PATH) the lookup
// is skipped with a warning rather than failing the job.
func (b *bootstrapper) provisionWindowsRuntime(ctx context.Context) error {
	if _, err := b.step(ctx, "provision-python", b.baseEnv, "choco", "install", "-y", "python"); err != nil {
		return err
	}

	root, err := platform.PythonInstallPath()
	if err != nil {
		b.logger.Warn("python install root lookup failed, relying on PATH", "error", err)
		return nil
	}
	b.baseEnv = envutil.PrependPath(b.baseEnv, root, filepath.Join(root, "Scripts"))
	b.logger.Info("python install root discovered", "root", root)
	return nil
}
