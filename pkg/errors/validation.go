package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidatePositive rejects zero, negative, NaN and infinite values.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParams, "%s must be finite, got %v", name, v)
	}
	if v <= 0 {
		return New(ErrCodeInvalidParams, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateNonNegative rejects negative, NaN and infinite values.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParams, "%s must be finite, got %v", name, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidParams, "%s must not be negative, got %v", name, v)
	}
	return nil
}

// ValidateRange rejects values outside [lo, hi].
func ValidateRange(name string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return New(ErrCodeInvalidParams, "%s must be within [%v, %v], got %v", name, lo, hi, v)
	}
	return nil
}

// ValidateFinite rejects NaN and infinite coordinates in input geometry.
func ValidateFinite(name string, vs ...float64) error {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "%s contains a non-finite value", name)
		}
	}
	return nil
}

// ValidateOutputPath validates a file path given for report output.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Extension must be one of the allowed ones, when any are given
func ValidateOutputPath(path string, allowedExt ...string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}
	if len(allowedExt) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowedExt {
		if ext == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported output extension %q (must be one of: %s)", ext, strings.Join(allowedExt, ", "))
}
