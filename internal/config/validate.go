package config

import (
	"fmt"
	"strings"
)

// requiredString validates a field that must be present and non-blank.
func requiredString(v *string, path string) (string, error) {
	if v == nil {
		return "", fmt.Errorf("%w: missing required field %s", ErrInvalid, path)
	}
	if isBlank(*v) {
		return "", fmt.Errorf("%w: %s cannot be empty", ErrInvalid, path)
	}
	return *v, nil
}

// optionalString validates a field that may be absent but not blank.
func optionalString(v *string, path string) (string, error) {
	if v == nil {
		return "", nil
	}
	if isBlank(*v) {
		return "", fmt.Errorf("%w: %s cannot be empty", ErrInvalid, path)
	}
	return *v, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
