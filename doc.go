// Package envboot bootstraps an isolated Python environment on a CI build
// agent and installs a package's runtime and test dependencies, using either
// pip (with a virtualenv) or conda.
//
// The library replaces the usual pile of per-OS shell snippets with an
// explicit, testable pipeline: resolve the agent's OS family to a toolchain,
// create an isolated environment, install the dependency set, and report
// every executed step. Configuration comes from a Config struct; the
// environment variables a CI platform provides (TRAVIS_OS_NAME, DEPS,
// TEST_DEPS, PYTHON_VERSION) are parsed once by ConfigFromEnviron rather
// than read ambiently throughout the code.
//
// Basic usage:
//
//	cfg, err := envboot.ConfigFromEnviron(nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	env, report, err := envboot.Bootstrap(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer env.Close()
//
// Exactly one package-manager path (pip or conda) executes per bootstrap;
// the first failing step aborts the run and is surfaced as a *StepError.
package envboot
