// Package envutil manipulates environment variable slices in the
// "KEY=VALUE" form used by os/exec.
package envutil

import (
	"os"
	"strings"
)

// Set sets or replaces an environment variable in an env slice.
// Returns the modified slice. If the key already exists, its value is
// updated in place. Otherwise, the new entry is appended.
func Set(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// Get gets a value from an env slice.
// Returns the value and true if found, or empty string and false if not.
func Get(env []string, key string) (string, bool) {
	prefix := key + "="
	for _, e := range env {
		if strings.HasPrefix(e, prefix) {
			return e[len(prefix):], true
		}
	}
	return "", false
}

// PrependPath prepends dirs (in order) to the PATH variable of an env slice,
// creating the variable if absent. The key is matched case-insensitively
// because Windows environments conventionally spell it "Path".
func PrependPath(env []string, dirs ...string) []string {
	if len(dirs) == 0 {
		return env
	}
	joined := strings.Join(dirs, string(os.PathListSeparator))
	for i, e := range env {
		idx := strings.IndexByte(e, '=')
		if idx < 0 {
			continue
		}
		if strings.EqualFold(e[:idx], "PATH") {
			value := e[idx+1:]
			if value == "" {
				env[i] = e[:idx+1] + joined
			} else {
				env[i] = e[:idx+1] + joined + string(os.PathListSeparator) + value
			}
			return env
		}
	}
	return append(env, "PATH="+joined)
}
