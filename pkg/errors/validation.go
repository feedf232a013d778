package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateIdentifier validates a Sisu identifier (programme id, group id or
// course code) before it is placed in a URL or a file name.
//
// The rules are conservative:
//   - No empty identifiers
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeConfig, "identifier cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeConfig, "identifier too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeConfig, "identifier contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeConfig, "identifier contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// programmeIDRegex matches module identifiers as issued by Sisu, e.g.
// "otm-1d25ee85-df98-4c03-b4ff-6cf8e4a85c7e" or "uta-tohjelma-1714".
var programmeIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateProgrammeID validates a degree programme identifier.
func ValidateProgrammeID(id string) error {
	if err := ValidateIdentifier(id); err != nil {
		return err
	}
	if !programmeIDRegex.MatchString(id) {
		return New(ErrCodeConfig, "invalid programme identifier: %q", id)
	}
	return nil
}

// ValidateYear checks that year is a plausible academic year.
func ValidateYear(year int) error {
	if year < 1900 || year > 2999 {
		return New(ErrCodeConfig, "invalid curriculum year: %d", year)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeConfig, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeConfig, "URL must use http or https scheme")
	}

	return nil
}
