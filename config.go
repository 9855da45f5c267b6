package envboot

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/envboot/envboot/internal/depspec"
	"github.com/envboot/envboot/platform"
)

const (
	// defaultMaxOutputBytes is the default limit for captured stdout/stderr (10 MB).
	defaultMaxOutputBytes = 10 * 1024 * 1024

	// defaultEnvDirName is the directory (pip) or environment name (conda)
	// used when the config does not specify one.
	defaultEnvDirName = "testenv"

	// defaultCondaChannel is registered before creating a conda environment
	// when no channels are configured.
	defaultCondaChannel = "conda-forge"
)

// Manager selects the package-manager path used for the bootstrap.
// Exactly one path executes per run; the two are mutually exclusive.
type Manager int

const (
	// ManagerPip bootstraps a virtualenv and installs with pip.
	ManagerPip Manager = iota

	// ManagerConda bootstraps a named conda environment and installs with conda.
	ManagerConda
)

// String returns the string representation of a Manager.
func (m Manager) String() string {
	switch m {
	case ManagerPip:
		return "pip"
	case ManagerConda:
		return "conda"
	default:
		return "unknown"
	}
}

// ManagerFromString parses a package-manager name ("pip" or "conda").
func ManagerFromString(s string) (Manager, error) {
	switch s {
	case "pip":
		return ManagerPip, nil
	case "conda":
		return ManagerConda, nil
	default:
		return 0, fmt.Errorf("%w: unknown package manager %q", ErrConfigInvalid, s)
	}
}

// Config holds the complete configuration for a bootstrap run.
type Config struct {
	// Family is the build agent's operating system family.
	Family platform.Family

	// Manager selects the pip or conda bootstrap path.
	Manager Manager

	// RuntimeDeps lists the package's ordinary dependency specifiers,
	// installed in order before TestDeps.
	RuntimeDeps []string

	// TestDeps lists test-only dependency specifiers.
	TestDeps []string

	// PythonVersion pins the interpreter version of a conda environment
	// (e.g., "3.11"). Required for ManagerConda, ignored for ManagerPip.
	PythonVersion string

	// EnvRoot is the directory the virtualenv is created in (pip path).
	// Defaults to $HOME/testenv.
	EnvRoot string

	// EnvName is the conda environment name. Defaults to "testenv".
	EnvName string

	// Channels lists additional conda channels to register before creating
	// the environment. Defaults to {"conda-forge"}.
	Channels []string

	// UniqueEnvName appends a random suffix to EnvName/EnvRoot so that
	// concurrent jobs on a shared agent cannot collide.
	UniqueEnvName bool

	// SystemSitePackages lets the virtualenv inherit system-wide packages
	// (pip path only).
	SystemSitePackages bool

	// SkipPreflight disables the warn-only package-index reachability probe.
	SkipPreflight bool

	// MaxOutputBytes limits the size of captured stdout/stderr per step.
	// 0 means no limit. Defaults to defaultMaxOutputBytes (10 MB) when
	// created via DefaultConfig(). Set explicitly to 0 to disable the limit.
	MaxOutputBytes int

	// StepTimeout bounds the execution time of each individual step.
	// 0 means no per-step timeout; the caller's context still applies.
	StepTimeout time.Duration

	// Logger is the structured logger for step progress and diagnostics.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Runner executes subprocesses. If nil, a runner backed by os/exec is
	// used. Tests inject recording runners here.
	Runner Runner
}

// DefaultConfig returns a Config with defaults matching the historical CI
// script: pip path, virtualenv at $HOME/testenv inheriting system packages.
// If the user's home directory cannot be determined, os.TempDir() is used
// as the virtualenv parent.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir() // fallback
	}

	return &Config{
		Family:             platform.Detect(),
		Manager:            ManagerPip,
		EnvRoot:            filepath.Join(home, defaultEnvDirName),
		EnvName:            defaultEnvDirName,
		SystemSitePackages: true,
		MaxOutputBytes:     defaultMaxOutputBytes,
	}
}

// ConfigFromEnviron builds a Config from the environment variables a CI
// platform provides: TRAVIS_OS_NAME (required; "linux", "osx", or
// "windows"), DEPS and TEST_DEPS (space-separated dependency specifiers),
// PYTHON_VERSION (conda path), and ENVBOOT_MANAGER ("pip", the default, or
// "conda").
//
// lookup has the signature of os.LookupEnv; nil means os.LookupEnv. An
// unrecognized TRAVIS_OS_NAME is an explicit error, never a silent fallback
// to any OS branch.
func ConfigFromEnviron(lookup func(string) (string, bool)) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	cfg := DefaultConfig()

	osName, ok := lookup("TRAVIS_OS_NAME")
	if !ok || osName == "" {
		return nil, fmt.Errorf("%w: TRAVIS_OS_NAME is not set", ErrConfigInvalid)
	}
	family, err := platform.FamilyFromCI(osName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}
	cfg.Family = family

	if v, ok := lookup("ENVBOOT_MANAGER"); ok && v != "" {
		mgr, err := ManagerFromString(v)
		if err != nil {
			return nil, err
		}
		cfg.Manager = mgr
	}

	if v, ok := lookup("DEPS"); ok {
		cfg.RuntimeDeps = depspec.Split(v)
	}
	if v, ok := lookup("TEST_DEPS"); ok {
		cfg.TestDeps = depspec.Split(v)
	}
	if v, ok := lookup("PYTHON_VERSION"); ok {
		cfg.PythonVersion = v
	}

	return cfg, nil
}

// Validate checks the configuration for errors and returns a descriptive
// error if any field is invalid. The returned error wraps ErrConfigInvalid.
func (c *Config) Validate() error {
	var errs []string

	if c.Family == platform.FamilyUnknown {
		errs = append(errs, "Family: must be a known os family")
	}
	if c.Manager < ManagerPip || c.Manager > ManagerConda {
		errs = append(errs, "Manager: invalid value")
	}

	if err := depspec.ValidateAll(c.RuntimeDeps); err != nil {
		errs = append(errs, fmt.Sprintf("RuntimeDeps: %v", err))
	}
	if err := depspec.ValidateAll(c.TestDeps); err != nil {
		errs = append(errs, fmt.Sprintf("TestDeps: %v", err))
	}

	switch c.Manager {
	case ManagerConda:
		if c.PythonVersion == "" {
			errs = append(errs, "PythonVersion: required for the conda path")
		}
		if c.EnvName == "" {
			errs = append(errs, "EnvName: must not be empty")
		}
	case ManagerPip:
		if c.EnvRoot == "" {
			errs = append(errs, "EnvRoot: must not be empty")
		}
	}

	if c.MaxOutputBytes < 0 {
		errs = append(errs, "MaxOutputBytes: must be >= 0")
	}
	if c.StepTimeout < 0 {
		errs = append(errs, "StepTimeout: must be >= 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigInvalid, strings.Join(errs, "; "))
	}
	return nil
}

// deepCopyConfig returns a copy of cfg with all slice fields deep-copied to
// prevent aliasing. Logger and Runner are shared by reference intentionally.
func deepCopyConfig(cfg *Config) Config {
	cfgCopy := *cfg
	cfgCopy.RuntimeDeps = append([]string(nil), cfg.RuntimeDeps...)
	cfgCopy.TestDeps = append([]string(nil), cfg.TestDeps...)
	cfgCopy.Channels = append([]string(nil), cfg.Channels...)
	return cfgCopy
}
