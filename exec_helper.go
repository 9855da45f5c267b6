package envboot

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// execHelper runs cmd, capturing stdout/stderr with a size limit, and
// returns an ExecResult. A non-zero exit code is recorded in the result
// rather than returned as an error; only failures to run at all (missing
// binary, cancelled context) surface as errors.
//
// maxOutput limits captured stdout/stderr; 0 means no limit.
func execHelper(cmd *exec.Cmd, maxOutput int) (*ExecResult, error) {
	var stdout, stderr bytes.Buffer
	var stdoutWriter, stderrWriter io.Writer
	stdoutWriter = &stdout
	stderrWriter = &stderr
	if maxOutput > 0 {
		stdoutWriter = &limitedWriter{buf: &stdout, limit: maxOutput}
		stderrWriter = &limitedWriter{buf: &stderr, limit: maxOutput}
	}
	cmd.Stdout = stdoutWriter
	cmd.Stderr = stderrWriter

	setupProcessGroup(cmd)

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
			err = nil // non-zero exit is not a Go error
		} else {
			return nil, err
		}
	}

	truncated := false
	if maxOutput > 0 && (stdout.Len() >= maxOutput || stderr.Len() >= maxOutput) {
		truncated = true
	}

	return &ExecResult{
		ExitCode:  exitCode,
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Duration:  duration,
		Truncated: truncated,
	}, nil
}

// limitedWriter wraps a bytes.Buffer and stops writing after limit bytes.
type limitedWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard but report success
	}
	if len(p) <= remaining {
		return w.buf.Write(p)
	}
	// Write only what fits, but report full length to avoid io.ErrShortWrite.
	_, err := w.buf.Write(p[:remaining])
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// envLookup finds a variable in a KEY=VALUE slice, matching the key
// case-insensitively so Windows "Path" entries are found too.
func envLookup(env []string, key string) (string, bool) {
	for _, e := range env {
		idx := strings.IndexByte(e, '=')
		if idx < 0 {
			continue
		}
		if strings.EqualFold(e[:idx], key) {
			return e[idx+1:], true
		}
	}
	return "", false
}

// lookPath resolves name against an explicit PATH value. Absolute and
// directory-qualified names are returned as-is.
func lookPath(name, path string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) || filepath.IsAbs(name) {
		return name, nil
	}
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			continue
		}
		for _, candidate := range executableCandidates(filepath.Join(dir, name)) {
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() && isExecutable(info) {
				return candidate, nil
			}
		}
	}
	return "", exec.ErrNotFound
}

// isExecutable reports whether a file mode looks runnable. On Windows the
// extension decides, so any regular file passes here.
func isExecutable(info fs.FileInfo) bool {
	if os.PathSeparator == '\\' {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

// executableCandidates returns the filenames to probe for one path: the name
// itself, plus Windows executable extensions when relevant.
func executableCandidates(path string) []string {
	if os.PathSeparator != '\\' {
		return []string{path}
	}
	if ext := filepath.Ext(path); ext != "" {
		return []string{path}
	}
	return []string{path + ".exe", path + ".bat", path + ".cmd", path}
}
