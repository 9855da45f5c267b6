// Command envboot bootstraps an isolated Python environment on a CI build
// agent and installs a package's dependencies with pip or conda.
//
// Invoked with zero arguments it reads its configuration from the
// environment (TRAVIS_OS_NAME, DEPS, TEST_DEPS, PYTHON_VERSION,
// ENVBOOT_MANAGER), reproducing the behavior of the shell script it
// replaces. Flags override the environment; a manifest file supplies
// defaults for anything still unset. The process exit code is the exit
// code of the first failing bootstrap step.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/envboot/envboot"
	"github.com/envboot/envboot/platform"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		// The job's exit code is the failing subprocess's exit code.
		var stepErr *envboot.StepError
		if errors.As(err, &stepErr) && stepErr.Result != nil && stepErr.Result.ExitCode != 0 {
			os.Exit(stepErr.Result.ExitCode)
		}
		os.Exit(1)
	}
}

// rootFlags holds the flag values of the root command.
type rootFlags struct {
	manager       string
	pythonVersion string
	deps          []string
	testDeps      []string
	manifestPath  string
	envRoot       string
	envName       string
	osName        string
	dryRun        bool
	verbose       bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "envboot",
		Short:         "Bootstrap an isolated Python environment and install CI dependencies",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildConfig(cmd, f)
			if err != nil {
				return err
			}

			var opts []envboot.Option
			opts = append(opts, envboot.WithLogger(newLogger(cmd, f.verbose)))
			if f.dryRun {
				opts = append(opts, envboot.WithDryRun(cmd.OutOrStdout()))
				cfg.SkipPreflight = true
			}

			env, report, err := envboot.Bootstrap(cmd.Context(), cfg, opts...)
			if err != nil {
				return err
			}
			defer env.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "environment %s ready at %s (%d steps)\n",
				env.Name(), env.Root(), len(report.Steps))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&f.manager, "manager", "", `package manager: "pip" or "conda" (default from ENVBOOT_MANAGER, then pip)`)
	flags.StringVar(&f.pythonVersion, "python-version", "", "interpreter version pin for conda environments")
	flags.StringSliceVar(&f.deps, "deps", nil, "runtime dependency specifiers")
	flags.StringSliceVar(&f.testDeps, "test-deps", nil, "test-only dependency specifiers")
	flags.StringVar(&f.manifestPath, "manifest", "", "path to an envboot.yaml manifest")
	flags.StringVar(&f.envRoot, "env-root", "", "virtualenv directory (default $HOME/testenv)")
	flags.StringVar(&f.envName, "env-name", "", `conda environment name (default "testenv")`)
	flags.StringVar(&f.osName, "os", "", `os family override: "linux", "osx", or "windows" (default from TRAVIS_OS_NAME, then the local system)`)
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print commands instead of executing them")

	cmd.AddCommand(newCheckCmd(f))
	return cmd
}

// buildConfig layers configuration: defaults, then the manifest, then
// environment variables, then flags. The most explicit source wins.
func buildConfig(cmd *cobra.Command, f *rootFlags) (*envboot.Config, error) {
	var cfg *envboot.Config
	if _, ok := os.LookupEnv("TRAVIS_OS_NAME"); ok {
		c, err := envboot.ConfigFromEnviron(nil)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		cfg = envboot.DefaultConfig()
	}

	if f.osName != "" {
		family, err := platform.FamilyFromCI(f.osName)
		if err != nil {
			return nil, err
		}
		cfg.Family = family
	}

	managerSet := cmd.PersistentFlags().Changed("manager")
	if managerSet {
		mgr, err := envboot.ManagerFromString(f.manager)
		if err != nil {
			return nil, err
		}
		cfg.Manager = mgr
	}

	if len(f.deps) > 0 {
		cfg.RuntimeDeps = f.deps
	}
	if len(f.testDeps) > 0 {
		cfg.TestDeps = f.testDeps
	}
	if f.pythonVersion != "" {
		cfg.PythonVersion = f.pythonVersion
	}
	if f.envRoot != "" {
		cfg.EnvRoot = f.envRoot
	}
	if f.envName != "" {
		cfg.EnvName = f.envName
	}

	if f.manifestPath != "" {
		m, err := envboot.LoadManifest(f.manifestPath)
		if err != nil {
			return nil, err
		}
		m.ApplyDefaults(cfg)
		// The manifest's manager key applies only when neither the flag
		// nor ENVBOOT_MANAGER chose one.
		_, envSet := os.LookupEnv("ENVBOOT_MANAGER")
		if m.Manager != "" && !managerSet && !envSet {
			mgr, err := envboot.ManagerFromString(m.Manager)
			if err != nil {
				return nil, err
			}
			cfg.Manager = mgr
		}
	}

	return cfg, nil
}

// newCheckCmd returns the check subcommand: it resolves the toolchain and
// probes package-index reachability without any side effects.
func newCheckCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Print toolchain resolution and package index reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildConfig(cmd.Root(), f)
			if err != nil {
				return err
			}
			tc, err := platform.ToolchainFor(cfg.Family)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "os family:  %s\n", cfg.Family)
			fmt.Fprintf(out, "manager:    %s\n", cfg.Manager)
			fmt.Fprintf(out, "python:     %s\n", tc.Python)
			fmt.Fprintf(out, "pip:        %s\n", tc.Pip)

			if err := envboot.CheckIndex(cmd.Context(), cfg.Manager); err != nil {
				fmt.Fprintf(out, "index:      unreachable (%v)\n", err)
				return nil
			}
			fmt.Fprintf(out, "index:      reachable\n")
			return nil
		},
	}
}

// newLogger returns a text slog.Logger writing to the command's stderr.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
