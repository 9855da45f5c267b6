package envutil

import (
	"os"
	"strings"
	"testing"
)

func assertSliceEqual(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name  string
		env   []string
		key   string
		value string
		want  []string
	}{
		{
			name:  "set new variable",
			env:   []string{"A=1"},
			key:   "B",
			value: "2",
			want:  []string{"A=1", "B=2"},
		},
		{
			name:  "replace existing variable",
			env:   []string{"A=1", "B=2"},
			key:   "A",
			value: "99",
			want:  []string{"A=99", "B=2"},
		},
		{
			name:  "set on nil slice",
			env:   nil,
			key:   "VIRTUAL_ENV",
			value: "/home/ci/testenv",
			want:  []string{"VIRTUAL_ENV=/home/ci/testenv"},
		},
		{
			name:  "replace preserves position",
			env:   []string{"A=1", "B=2", "C=3"},
			key:   "B",
			value: "new",
			want:  []string{"A=1", "B=new", "C=3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Set(tt.env, tt.key, tt.value)
			assertSliceEqual(t, got, tt.want)
		})
	}
}

func TestGet(t *testing.T) {
	env := []string{"PATH=/usr/bin", "HOME=/home/user", "EMPTY="}

	tests := []struct {
		name      string
		key       string
		wantValue string
		wantOK    bool
	}{
		{"existing", "PATH", "/usr/bin", true},
		{"existing second", "HOME", "/home/user", true},
		{"empty value", "EMPTY", "", true},
		{"missing", "NOPE", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := Get(env, tt.key)
			if value != tt.wantValue || ok != tt.wantOK {
				t.Errorf("Get(%q) = (%q, %v), want (%q, %v)", tt.key, value, ok, tt.wantValue, tt.wantOK)
			}
		})
	}
}

func TestPrependPath(t *testing.T) {
	sep := string(os.PathListSeparator)

	tests := []struct {
		name string
		env  []string
		dirs []string
		want []string
	}{
		{
			name: "prepend to existing",
			env:  []string{"PATH=/usr/bin", "HOME=/home/user"},
			dirs: []string{"/home/ci/testenv/bin"},
			want: []string{"PATH=/home/ci/testenv/bin" + sep + "/usr/bin", "HOME=/home/user"},
		},
		{
			name: "multiple dirs keep order",
			env:  []string{"PATH=/usr/bin"},
			dirs: []string{"/a", "/b"},
			want: []string{"PATH=/a" + sep + "/b" + sep + "/usr/bin"},
		},
		{
			name: "create when absent",
			env:  []string{"HOME=/home/user"},
			dirs: []string{"/a"},
			want: []string{"HOME=/home/user", "PATH=/a"},
		},
		{
			name: "empty existing value",
			env:  []string{"PATH="},
			dirs: []string{"/a"},
			want: []string{"PATH=/a"},
		},
		{
			name: "windows-style Path key",
			env:  []string{"Path=C:\\Windows"},
			dirs: []string{"C:\\Python311"},
			want: []string{"Path=C:\\Python311" + sep + "C:\\Windows"},
		},
		{
			name: "no dirs is a no-op",
			env:  []string{"PATH=/usr/bin"},
			dirs: nil,
			want: []string{"PATH=/usr/bin"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrependPath(tt.env, tt.dirs...)
			assertSliceEqual(t, got, tt.want)
		})
	}
}

// TestPrependPathResolutionOrder verifies the prepended directory wins a
// PATH lookup, which is what environment activation relies on.
func TestPrependPathResolutionOrder(t *testing.T) {
	env := PrependPath([]string{"PATH=/usr/bin"}, "/env/bin")
	value, ok := Get(env, "PATH")
	if !ok {
		t.Fatal("PATH not found")
	}
	if !strings.HasPrefix(value, "/env/bin"+string(os.PathListSeparator)) {
		t.Errorf("PATH = %q, want /env/bin first", value)
	}
}
