// Package sanitizer normalizes free-text fields before validation and
// storage. All functions are idempotent and never return errors; invalid
// input degrades to an empty string.
package sanitizer

import (
	"regexp"
	"strings"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	departmentRegex = regexp.MustCompile(`[^a-z0-9 ]`)
)

// NormalizeText collapses runs of whitespace and trims the result. Used for
// operator-entered fields such as the appointment reason.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// NormalizeDepartment lowercases and strips punctuation so "Cardio-logy"
// and "cardiology" compare equal.
func NormalizeDepartment(s string) string {
	s = strings.ToLower(NormalizeText(s))
	return strings.TrimSpace(departmentRegex.ReplaceAllString(s, ""))
}

// NormalizeID trims surrounding whitespace from an opaque external
// identifier. IDs are otherwise stored verbatim.
func NormalizeID(s string) string {
	return strings.TrimSpace(s)
}
