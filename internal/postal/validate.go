package postal

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// CodeLength is the number of digits of a German postal code.
const CodeLength = 5

var (
	ErrIncomplete = errors.New("postal code must have 5 digits")
	ErrTooLong    = errors.New("postal code must not have more than 5 digits")
	ErrNotNumeric = errors.New("postal code must contain digits only")
)

// ValidateCode returns nil when code (ignoring surrounding whitespace) is
// exactly five ASCII digits. The returned error is meant as a warning for the
// user; it never blocks a submission.
func ValidateCode(code string) error {
	code = strings.TrimSpace(code)

	if utf8.RuneCountInString(code) > CodeLength {
		return ErrTooLong
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return ErrNotNumeric
		}
	}
	if len(code) < CodeLength {
		return ErrIncomplete
	}
	return nil
}

// IsValidationError reports whether err came from ValidateCode.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrIncomplete) || errors.Is(err, ErrTooLong) || errors.Is(err, ErrNotNumeric)
}
