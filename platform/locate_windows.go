//go:build windows

package platform

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sys/windows/registry"
)

// pythonCoreKey is the registry subtree written by CPython installers
// (including the one chocolatey ships).
const pythonCoreKey = `Software\Python\PythonCore`

// PythonInstallPath locates the newest registered CPython install root by
// reading the PythonCore registry subtree, preferring the per-machine hive
// over the per-user one. The returned path is the directory containing
// python.exe; its Scripts subdirectory holds pip and console entry points.
func PythonInstallPath() (string, error) {
	var lastErr error
	for _, hive := range []registry.Key{registry.LOCAL_MACHINE, registry.CURRENT_USER} {
		path, err := installPathFromHive(hive)
		if err == nil {
			return path, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("platform: no registered python install found: %w", lastErr)
}

// installPathFromHive scans one registry hive for PythonCore versions and
// returns the InstallPath of the highest version string.
func installPathFromHive(hive registry.Key) (string, error) {
	core, err := registry.OpenKey(hive, pythonCoreKey, registry.READ)
	if err != nil {
		return "", err
	}
	defer core.Close()

	versions, err := core.ReadSubKeyNames(-1)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", errors.New("platform: PythonCore key has no versions")
	}

	// Version subkeys are "3.11", "3.12", ...; lexicographic order is close
	// enough given CPython's versioning, and the newest sorts last.
	sort.Strings(versions)

	for i := len(versions) - 1; i >= 0; i-- {
		key, err := registry.OpenKey(core, versions[i]+`\InstallPath`, registry.READ)
		if err != nil {
			continue
		}
		path, _, err := key.GetStringValue("")
		key.Close()
		if err == nil && path != "" {
			return path, nil
		}
	}
	return "", errors.New("platform: no PythonCore version has an InstallPath")
}
