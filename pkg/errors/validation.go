package errors

import (
	"math"
	"slices"
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds element identifiers accepted from clients.
const MaxNodeIDLength = 256

// ValidateNodeID validates an element identifier from an untrusted graph.
//
// The rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - No whitespace (document IDs are XML names)
//   - Maximum length of MaxNodeIDLength characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node ID cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidGraph, "node ID too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node ID %q contains control characters", id)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidGraph, "node ID %q contains whitespace", id)
		}
	}

	return nil
}

// ValidateSpacingFactor checks that a spacing factor is usable. Zero is
// allowed and means "use the default".
func ValidateSpacingFactor(f float64) error {
	if math.IsNaN(f) || f < 0 || f > 10 {
		return New(ErrCodeInvalidInput, "spacing factor must be between 0 and 10, got %v", f)
	}
	return nil
}

// ValidateFormats checks every requested output format against the supported
// set. Format names are compared case-insensitively.
func ValidateFormats(formats, supported []string) error {
	for _, f := range formats {
		if !slices.Contains(supported, strings.ToLower(f)) {
			return New(ErrCodeInvalidFormat, "unsupported format %q (supported: %s)", f, strings.Join(supported, ", "))
		}
	}
	return nil
}
