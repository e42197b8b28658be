package errors

import (
	"strings"
	"unicode"
)

// ValidateRange reports an INVALID_ARGUMENT error when v lies outside [lo, hi].
// name is used in the message ("row count", "depth", ...).
func ValidateRange(name string, v, lo, hi int) error {
	if v < lo {
		return New(ErrCodeInvalidArgument, "%s must be >= %d, got %d", name, lo, v)
	}
	if v > hi {
		return New(ErrCodeInvalidArgument, "%s must be <= %d, got %d", name, hi, v)
	}
	return nil
}

// ValidateSceneID validates an identifier used as a file name or document key
// by the scene store.
//
// Validation rules:
//   - ID cannot be empty
//   - Maximum length of 128 characters
//   - No control characters
//   - No path separators or traversal sequences
func ValidateSceneID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPath, "scene id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidPath, "scene id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "scene id contains invalid control characters")
		}
	}
	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidPath, "scene id cannot contain path components: %q", id)
	}
	return nil
}

// ValidatePath validates a relative output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
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

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
