//go:build !windows

package platform

import "errors"

// ErrNoRegistry indicates a Windows registry lookup was requested on a
// platform without one.
var ErrNoRegistry = errors.New("platform: python registry lookup is only available on windows")

// PythonInstallPath is a stub on non-Windows systems. POSIX agents resolve
// python3/pip3 through PATH and never need an install-root lookup.
func PythonInstallPath() (string, error) {
	return "", ErrNoRegistry
}
