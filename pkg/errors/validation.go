package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateCourseName validates a free-form course name before it is sent to
// the generator or turned into a key.
//
// Rules:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 200 characters
func ValidateCourseName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "course name cannot be empty")
	}

	if len(name) > 200 {
		return New(ErrCodeInvalidInput, "course name too long (max 200 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "course name contains invalid control characters")
		}
	}

	return nil
}

// courseKeyRegex matches the keys produced by course.StoreKey.
var courseKeyRegex = regexp.MustCompile(`^[\p{L}\p{N}._+#-]+$`)

// ValidateCourseKey validates a course lookup key as it appears in URLs,
// cache keys and store file names.
//
// Keys are lowercase and contain no whitespace, path separators or
// traversal sequences.
func ValidateCourseKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "course key cannot be empty")
	}

	if len(key) > 200 {
		return New(ErrCodeInvalidKey, "course key too long (max 200 characters)")
	}

	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidKey, "course key cannot contain path traversal sequences (..)")
	}

	if strings.ToLower(key) != key {
		return New(ErrCodeInvalidKey, "course key must be lowercase: %q", key)
	}

	if !courseKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidKey, "invalid course key: %q", key)
	}

	return nil
}
