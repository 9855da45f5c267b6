package envboot

import (
	"bytes"
	"context"
	"testing"
)

// TestDryRunRunner verifies commands are printed, not executed, and report
// success.
func TestDryRunRunner(t *testing.T) {
	var buf bytes.Buffer
	r := &DryRunRunner{W: &buf}

	res, err := r.Run(context.Background(), CommandSpec{
		Name: "pip3",
		Args: []string{"install", "--upgrade", "requests"},
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if got := buf.String(); got != "pip3 install --upgrade requests\n" {
		t.Errorf("output = %q", got)
	}
}

// TestDryRunRunnerNilWriter verifies a nil writer is tolerated.
func TestDryRunRunnerNilWriter(t *testing.T) {
	r := &DryRunRunner{}
	if _, err := r.Run(context.Background(), CommandSpec{Name: "conda"}); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

// TestReportLast verifies Last on empty and populated reports.
func TestReportLast(t *testing.T) {
	var r Report
	if r.Last() != nil {
		t.Error("empty report should have no last step")
	}
	r.record("python-version", []string{"python3", "--version"}, &ExecResult{})
	r.record("pip-version", []string{"pip3", "--version"}, &ExecResult{})
	if last := r.Last(); last == nil || last.Name != "pip-version" {
		t.Errorf("Last() = %+v", r.Last())
	}
}
