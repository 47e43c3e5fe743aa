package errors

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// spaceIDRegex matches ids usable as CSS id selectors without escaping.
var spaceIDRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// ValidateSpaceID validates a space id taken from a layout document.
// Ids become CSS selectors and DOT node names, so they are restricted to
// letters, digits, '-' and '_' and must not start with a digit.
func ValidateSpaceID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "space id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "space id too long (max 128 characters)")
	}
	if !spaceIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid space id: %q", id)
	}
	return nil
}

// sizeUnits are the length units accepted after a number, longest suffix
// first.
var sizeUnits = []string{"rem", "vmin", "vmax", "px", "em", "vw", "vh", "pt", "ch", "%"}

// ValidateSizeExpr validates a length expression such as "25%", "200px"
// or "10rem". Bare numbers are accepted as pixels. calc() expressions are
// not: layout documents state single lengths and the adjustment lists
// supply the sums.
func ValidateSizeExpr(expr string) error {
	s := strings.TrimSpace(expr)
	if s == "" {
		return New(ErrCodeInvalidSize, "size expression cannot be empty")
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSize, "size expression contains control characters")
		}
	}
	num := s
	for _, u := range sizeUnits {
		if strings.HasSuffix(s, u) {
			num = strings.TrimSuffix(s, u)
			break
		}
	}
	if _, err := strconv.ParseFloat(num, 64); err != nil {
		return New(ErrCodeInvalidSize, "invalid size expression: %q", expr)
	}
	return nil
}

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
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

	return nil
}
