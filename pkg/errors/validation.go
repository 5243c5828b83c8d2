package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateCoordinate rejects NaN and infinite values. what names the value in
// the returned message (e.g. "x1").
func ValidateCoordinate(what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeMalformedRecord, "%s is not a finite number: %v", what, v)
	}
	return nil
}

// ValidateLocationName validates a location record name.
//
// Names are shown in the editor and turned into record IDs, so the rules are:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateLocationName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidLocation, "location name cannot be empty")
	}

	const maxNameLength = 128
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidLocation, "location name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLocation, "location name contains invalid control characters")
		}
	}

	return nil
}

// ValidateOutputPath validates a file path the pipeline is about to write.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Path must not name a directory (no trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path must name a file, not a directory: %q", path)
	}

	return nil
}
