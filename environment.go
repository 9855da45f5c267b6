package envboot

import (
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/envboot/envboot/internal/envutil"
	"github.com/envboot/envboot/platform"
)

// Environment is the handle to a bootstrapped isolated environment. It
// replaces shell-style "activation": instead of mutating the calling
// process, Environ() yields a process environment with the environment's
// executable directories prepended to PATH, and Close releases the handle
// on every exit path.
//
// The on-disk environment itself is torn down with the CI job's container
// or VM; Close invalidates the handle, it does not delete files.
type Environment struct {
	name    string
	root    string
	manager Manager

	// pathDirs are prepended to PATH, highest priority first.
	pathDirs []string

	// vars are manager-specific variables (VIRTUAL_ENV, CONDA_PREFIX, ...)
	// as KEY=VALUE pairs.
	vars [][2]string

	// base is the environment the handle was created against, usually
	// os.Environ() plus any per-call additions.
	base []string

	mu     sync.Mutex
	closed bool
}

// newPipEnvironment returns the handle for a virtualenv rooted at root.
func newPipEnvironment(root string, tc platform.Toolchain, base []string) *Environment {
	binDir := filepath.Join(root, tc.EnvBinDir)
	return &Environment{
		name:     filepath.Base(root),
		root:     root,
		manager:  ManagerPip,
		pathDirs: []string{binDir},
		vars:     [][2]string{{"VIRTUAL_ENV", root}},
		base:     append([]string(nil), base...),
	}
}

// newCondaEnvironment returns the handle for a named conda environment whose
// prefix directory is root. On Windows conda places python.exe in the prefix
// itself and entry points under Scripts; on POSIX everything lives in bin.
func newCondaEnvironment(name, root string, tc platform.Toolchain, base []string) *Environment {
	var pathDirs []string
	if tc.NeedsPathSetup {
		pathDirs = []string{root, filepath.Join(root, tc.EnvBinDir)}
	} else {
		pathDirs = []string{filepath.Join(root, tc.EnvBinDir)}
	}
	return &Environment{
		name:     name,
		root:     root,
		manager:  ManagerConda,
		pathDirs: pathDirs,
		vars: [][2]string{
			{"CONDA_DEFAULT_ENV", name},
			{"CONDA_PREFIX", root},
		},
		base: append([]string(nil), base...),
	}
}

// Name returns the environment's name (directory basename for pip, the
// conda environment name for conda).
func (e *Environment) Name() string { return e.name }

// Root returns the environment's prefix directory.
func (e *Environment) Root() string { return e.root }

// BinDir returns the directory holding the environment's executables.
func (e *Environment) BinDir() string { return e.pathDirs[len(e.pathDirs)-1] }

// Manager returns the package-manager path that created the environment.
func (e *Environment) Manager() Manager { return e.manager }

// Environ returns a process environment in which the isolated environment
// is active: its executable directories are prepended to PATH and its
// manager-specific variables are set. The returned slice is a copy.
// Returns ErrEnvironmentClosed after Close.
func (e *Environment) Environ() ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEnvironmentClosed
	}

	env := append([]string(nil), e.base...)
	env = envutil.PrependPath(env, e.pathDirs...)
	for _, kv := range e.vars {
		env = envutil.Set(env, kv[0], kv[1])
	}
	return env, nil
}

// Closed reports whether the handle has been released.
func (e *Environment) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Close releases the handle. It is idempotent and never fails; the on-disk
// environment is left for the CI platform to discard with the job.
func (e *Environment) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

// uniqueSuffix returns a short random suffix for environment names, so that
// concurrent jobs on a shared agent cannot collide.
func uniqueSuffix() string {
	return uuid.NewString()[:8]
}
