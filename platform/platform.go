// Package platform maps a CI build agent's operating system family to the
// Python toolchain that is actually resolvable on that agent: python3/pip3
// on POSIX systems, the unversioned python/pip on Windows (where only the
// unversioned names resolve, and the install's Scripts directory must be
// prepended to the search path).
package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrUnknownFamily indicates an OS family name that is not one of the
// recognized values. Unrecognized agents are an explicit error rather than
// a silent fallback to any particular branch.
var ErrUnknownFamily = errors.New("platform: unknown os family")

// Family identifies a build agent's operating system family.
type Family int

const (
	// FamilyUnknown is the zero value and never a valid configuration.
	FamilyUnknown Family = iota

	// Linux identifies Linux build agents.
	Linux

	// Darwin identifies macOS build agents.
	Darwin

	// Windows identifies Windows build agents.
	Windows
)

// String returns the string representation of a Family.
func (f Family) String() string {
	switch f {
	case Linux:
		return "linux"
	case Darwin:
		return "darwin"
	case Windows:
		return "windows"
	default:
		return "unknown"
	}
}

// Posix reports whether the family uses POSIX executable naming.
func (f Family) Posix() bool {
	return f == Linux || f == Darwin
}

// FamilyFromCI maps a CI platform's os-name string to a Family.
// Recognized values are "linux", "osx", and "windows" (the Travis
// TRAVIS_OS_NAME vocabulary). Any other value returns an error wrapping
// ErrUnknownFamily.
func FamilyFromCI(name string) (Family, error) {
	switch name {
	case "linux":
		return Linux, nil
	case "osx":
		return Darwin, nil
	case "windows":
		return Windows, nil
	default:
		return FamilyUnknown, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
	}
}

// Detect returns the Family of the running system based on runtime.GOOS.
// Unsupported systems map to FamilyUnknown.
func Detect() Family {
	switch runtime.GOOS {
	case "linux":
		return Linux
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	default:
		return FamilyUnknown
	}
}

// Toolchain names the Python executables for one OS family and describes
// how an isolated environment is laid out on it.
type Toolchain struct {
	// Python is the interpreter executable name ("python3" or "python").
	Python string

	// Pip is the package manager executable name ("pip3" or "pip").
	Pip string

	// EnvBinDir is the subdirectory of an isolated environment that holds
	// its executables ("bin" on POSIX, "Scripts" on Windows).
	EnvBinDir string

	// NeedsPathSetup indicates the Python install root and its Scripts
	// directory must be prepended to the executable search path before the
	// toolchain resolves (Windows only).
	NeedsPathSetup bool
}

// ToolchainFor returns the Toolchain for a Family. FamilyUnknown returns an
// error wrapping ErrUnknownFamily; there is no default branch.
func ToolchainFor(f Family) (Toolchain, error) {
	switch f {
	case Linux, Darwin:
		return Toolchain{
			Python:    "python3",
			Pip:       "pip3",
			EnvBinDir: "bin",
		}, nil
	case Windows:
		return Toolchain{
			Python:         "python",
			Pip:            "pip",
			EnvBinDir:      "Scripts",
			NeedsPathSetup: true,
		}, nil
	default:
		return Toolchain{}, fmt.Errorf("%w: %v", ErrUnknownFamily, f)
	}
}
