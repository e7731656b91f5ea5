package errors

import (
	"strings"
	"unicode"
)

// ValidatePackageName validates a package name read from an installed
// package.json or a lockfile key. It rejects names that would escape the
// node_modules directory they were found in.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 214 characters (the npm limit)
//   - At most one "/" and only after an "@scope" prefix
//
// Legacy mixed-case names such as "JSONStream" are accepted: they still
// exist in real installs.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 214 {
		return New(ErrCodeInvalidPackage, "package name too long (max 214 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	switch strings.Count(name, "/") {
	case 0:
		if strings.HasPrefix(name, "@") {
			return New(ErrCodeInvalidPackage, "scoped package name is missing its package part: %q", name)
		}
	case 1:
		if !strings.HasPrefix(name, "@") || strings.HasSuffix(name, "/") {
			return New(ErrCodeInvalidPackage, "invalid scoped package name: %q", name)
		}
	default:
		return New(ErrCodeInvalidPackage, "package name has too many path segments: %q", name)
	}

	return nil
}

// ValidateLockfileName validates the base name of a conversion source file.
// Only the two lockfile names lockbridge translates between are accepted.
func ValidateLockfileName(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "source file name cannot be empty")
	}
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "source file name cannot contain path separators")
	}
	switch filename {
	case "yarn.lock", "package-lock.json":
		return nil
	default:
		return New(ErrCodeInvalidInput, "source file must be yarn.lock or package-lock.json, got %q", filename)
	}
}
