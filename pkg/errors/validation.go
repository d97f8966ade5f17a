package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// MaxViewport is the largest accepted viewport edge in pixels.
const MaxViewport = 16384

// cardIDRegex matches card identifiers accepted by the store and HTTP service.
var cardIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateCardID validates a card identifier for safety.
// Identifiers end up in cache keys and database documents, so only a
// conservative character set is accepted.
func ValidateCardID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "card id cannot be empty")
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "card id cannot contain path traversal sequences (..)")
	}
	if !cardIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid card id: %q", id)
	}
	return nil
}

// ValidateViewport checks that a viewport is finite, positive and bounded.
func ValidateViewport(width, height float64) error {
	for _, v := range []struct {
		name  string
		value float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return New(ErrCodeInvalidViewport, "viewport %s must be a finite number", v.name)
		}
		if v.value <= 0 {
			return New(ErrCodeInvalidViewport, "viewport %s must be positive, got %g", v.name, v.value)
		}
		if v.value > MaxViewport {
			return New(ErrCodeInvalidViewport, "viewport %s too large (max %d)", v.name, MaxViewport)
		}
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
