package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// itemIDRegex matches identifiers that survive round-tripping through
// document markup and URL path segments.
var itemIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateItemID validates a diagram item identifier.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - Leading alphanumeric, then alphanumerics, dots, dashes, underscores
//   - Maximum length of 128 characters
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidItem, "item id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidItem, "item id too long (max 128 characters)")
	}

	if !itemIDRegex.MatchString(id) {
		return New(ErrCodeInvalidItem, "invalid item id: %q", id)
	}

	return nil
}

// projectNameRegex matches valid project names for the version store.
var projectNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ValidateProjectName validates a version store project name.
// Project names become storage keys, so they are restricted to
// lowercase identifiers without path separators.
func ValidateProjectName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidProject, "project name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidProject, "project name too long (max 64 characters)")
	}

	if strings.ToLower(name) != name {
		return New(ErrCodeInvalidProject, "project names must be lowercase: %q", name)
	}

	if !projectNameRegex.MatchString(name) {
		return New(ErrCodeInvalidProject, "invalid project name: %q", name)
	}

	return nil
}

// ValidatePath validates a document file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
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

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateVersion validates a version number from user input.
// Version numbers are assigned by the store starting at 1.
func ValidateVersion(n int64) error {
	if n < 1 {
		return New(ErrCodeInvalidInput, "version must be positive, got %d", n)
	}
	return nil
}
