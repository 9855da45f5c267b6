package envboot

import (
	"context"
	"path/filepath"
	"strings"
)

// condaExe is the conda entry point. Invoking the binary directly subsumes
// "activate base": base activation only arranges for `conda` to resolve.
const condaExe = "conda"

// condaBootstrap creates a named conda environment pinned to
// cfg.PythonVersion, strictly ordered: conda self-upgrade, channel
// registration, environment creation, activation. Mutually exclusive with
// the pip path.
func (b *bootstrapper) condaBootstrap(ctx context.Context) (*Environment, error) {
	if _, err := b.step(ctx, "conda-version", b.baseEnv, condaExe, "--version"); err != nil {
		return nil, err
	}

	if _, err := b.step(ctx, "update-conda", b.baseEnv,
		condaExe, "update", "-y", "-n", "base", "conda"); err != nil {
		return nil, err
	}

	for _, ch := range b.cfg.Channels {
		if _, err := b.step(ctx, "add-channel", b.baseEnv,
			condaExe, "config", "--append", "channels", ch); err != nil {
			return nil, err
		}
	}

	if _, err := b.step(ctx, "create-env", b.baseEnv,
		condaExe, "create", "-y", "-n", b.cfg.EnvName, "python="+b.cfg.PythonVersion); err != nil {
		return nil, err
	}

	// The environment prefix lives under the conda installation tree.
	res, err := b.step(ctx, "conda-base", b.baseEnv, condaExe, "info", "--base")
	if err != nil {
		return nil, err
	}
	prefix := filepath.Join(strings.TrimSpace(res.Stdout), "envs", b.cfg.EnvName)

	env := newCondaEnvironment(b.cfg.EnvName, prefix, b.tc, b.baseEnv)

	if _, err := b.envStep(ctx, "verify-env-python", env, b.tc.Python, "--version"); err != nil {
		return env, err
	}
	return env, nil
}
