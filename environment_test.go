package envboot

import (
	"errors"
	"strings"
	"testing"

	"github.com/envboot/envboot/platform"
)

func posixToolchain(t *testing.T) platform.Toolchain {
	t.Helper()
	tc, err := platform.ToolchainFor(platform.Linux)
	if err != nil {
		t.Fatalf("ToolchainFor() error: %v", err)
	}
	return tc
}

// TestPipEnvironmentEnviron verifies activation semantics: bin dir first on
// PATH, VIRTUAL_ENV set, and the base environment otherwise preserved.
func TestPipEnvironmentEnviron(t *testing.T) {
	base := []string{"PATH=/usr/bin", "HOME=/home/ci"}
	env := newPipEnvironment("/home/ci/testenv", posixToolchain(t), base)

	environ, err := env.Environ()
	if err != nil {
		t.Fatalf("Environ() error: %v", err)
	}

	var sawPath, sawVirtualEnv, sawHome bool
	for _, e := range environ {
		switch {
		case strings.HasPrefix(e, "PATH="):
			sawPath = true
			if !strings.HasPrefix(e, "PATH=/home/ci/testenv/bin") {
				t.Errorf("PATH = %q, want env bin dir first", e)
			}
		case e == "VIRTUAL_ENV=/home/ci/testenv":
			sawVirtualEnv = true
		case e == "HOME=/home/ci":
			sawHome = true
		}
	}
	if !sawPath || !sawVirtualEnv || !sawHome {
		t.Errorf("Environ() = %v, missing expected entries", environ)
	}

	if env.BinDir() != "/home/ci/testenv/bin" {
		t.Errorf("BinDir() = %q", env.BinDir())
	}
	if env.Name() != "testenv" {
		t.Errorf("Name() = %q, want testenv", env.Name())
	}
	if env.Manager() != ManagerPip {
		t.Errorf("Manager() = %v, want pip", env.Manager())
	}
}

// TestCondaEnvironmentEnviron verifies conda activation variables.
func TestCondaEnvironmentEnviron(t *testing.T) {
	base := []string{"PATH=/usr/bin"}
	env := newCondaEnvironment("testenv", "/opt/conda/envs/testenv", posixToolchain(t), base)

	environ, err := env.Environ()
	if err != nil {
		t.Fatalf("Environ() error: %v", err)
	}

	path, ok := envLookup(environ, "PATH")
	if !ok || !strings.HasPrefix(path, "/opt/conda/envs/testenv/bin") {
		t.Errorf("PATH = %q, want conda env bin dir first", path)
	}
	if v, _ := envLookup(environ, "CONDA_DEFAULT_ENV"); v != "testenv" {
		t.Errorf("CONDA_DEFAULT_ENV = %q", v)
	}
	if v, _ := envLookup(environ, "CONDA_PREFIX"); v != "/opt/conda/envs/testenv" {
		t.Errorf("CONDA_PREFIX = %q", v)
	}
}

// TestCondaEnvironmentWindowsPath verifies that on Windows both the prefix
// root (python.exe) and Scripts (entry points) are prepended, root first.
func TestCondaEnvironmentWindowsPath(t *testing.T) {
	tc, err := platform.ToolchainFor(platform.Windows)
	if err != nil {
		t.Fatalf("ToolchainFor() error: %v", err)
	}
	env := newCondaEnvironment("testenv", `C:\conda\envs\testenv`, tc, []string{"PATH=C:\\Windows"})

	environ, err := env.Environ()
	if err != nil {
		t.Fatalf("Environ() error: %v", err)
	}
	path, _ := envLookup(environ, "PATH")
	if !strings.HasPrefix(path, `C:\conda\envs\testenv`) {
		t.Errorf("PATH = %q, want conda prefix first", path)
	}
	if !strings.Contains(path, "Scripts") {
		t.Errorf("PATH = %q, want Scripts dir included", path)
	}
}

// TestEnvironmentClose verifies the close contract: idempotent, and
// Environ fails afterwards.
func TestEnvironmentClose(t *testing.T) {
	env := newPipEnvironment("/home/ci/testenv", posixToolchain(t), []string{"PATH=/usr/bin"})

	if env.Closed() {
		t.Error("fresh environment should not be closed")
	}
	if err := env.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := env.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
	if !env.Closed() {
		t.Error("Closed() should report true after Close")
	}

	if _, err := env.Environ(); !errors.Is(err, ErrEnvironmentClosed) {
		t.Errorf("Environ() after Close = %v, want ErrEnvironmentClosed", err)
	}
}

// TestEnvironmentEnvironCopies verifies Environ returns a fresh slice each
// call so callers cannot corrupt the handle's state.
func TestEnvironmentEnvironCopies(t *testing.T) {
	env := newPipEnvironment("/home/ci/testenv", posixToolchain(t), []string{"PATH=/usr/bin"})

	a, err := env.Environ()
	if err != nil {
		t.Fatalf("Environ() error: %v", err)
	}
	a[0] = "PATH=/corrupted"

	b, err := env.Environ()
	if err != nil {
		t.Fatalf("Environ() error: %v", err)
	}
	if b[0] == "PATH=/corrupted" {
		t.Error("Environ() shares state between calls")
	}
}

// TestUniqueSuffix verifies suffixes are short and distinct.
func TestUniqueSuffix(t *testing.T) {
	a, b := uniqueSuffix(), uniqueSuffix()
	if len(a) != 8 {
		t.Errorf("suffix length = %d, want 8", len(a))
	}
	if a == b {
		t.Error("consecutive suffixes should differ")
	}
}
