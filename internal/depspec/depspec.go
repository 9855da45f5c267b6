// Package depspec parses and validates dependency specifier lists as CI
// platforms supply them: space-separated strings naming a package with an
// optional version constraint (e.g., "requests" or "numpy>=1.18").
package depspec

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidSpecifier indicates a malformed dependency specifier.
var ErrInvalidSpecifier = errors.New("depspec: invalid dependency specifier")

// specifierRe matches a package name with optional extras and an optional
// version constraint. Names follow the PEP 503 normalization alphabet.
var specifierRe = regexp.MustCompile(
	`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?` + // name
		`(\[[A-Za-z0-9._,-]+\])?` + // extras
		`((==|!=|<=|>=|~=|<|>|=)[A-Za-z0-9.*+!_-]+(,(==|!=|<=|>=|~=|<|>)[A-Za-z0-9.*+!_-]+)*)?$`, // constraints
)

// Split breaks a space-separated specifier list into individual specifiers.
// Empty input yields a nil slice.
func Split(list string) []string {
	fields := strings.Fields(list)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Validate checks that a single specifier is well-formed. The specifiers
// end up as subprocess arguments, so anything resembling shell metacharacters
// or option injection is rejected outright.
func Validate(spec string) error {
	if spec == "" {
		return fmt.Errorf("%w: empty specifier", ErrInvalidSpecifier)
	}
	if strings.HasPrefix(spec, "-") {
		return fmt.Errorf("%w: %q must not start with '-'", ErrInvalidSpecifier, spec)
	}
	if strings.ContainsAny(spec, " \t\n;|&$`\"'\\(){}") {
		return fmt.Errorf("%w: %q contains forbidden characters", ErrInvalidSpecifier, spec)
	}
	if !specifierRe.MatchString(spec) {
		return fmt.Errorf("%w: %q", ErrInvalidSpecifier, spec)
	}
	return nil
}

// ValidateAll validates every specifier in a list and returns the first error.
func ValidateAll(specs []string) error {
	for _, s := range specs {
		if err := Validate(s); err != nil {
			return err
		}
	}
	return nil
}
