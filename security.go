package ukcgt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// isinRegex checks for the basic structure: 2 letters, 9 alphanumeric, 1 digit.
var isinRegex = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// idCharRegex checks for alphanumeric characters and space, used in Private IDs.
var idCharRegex = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)

// ID is the stable identifier of a security. All matching state is scoped per ID.
//
// It is either an ISIN (ISO 6166) or a private identifier for instruments
// that have none.
//
// Private identifiers follow these rules, so they cannot be mistaken for an ISIN:
//  1. Must be at least 7 characters long.
//  2. Must only contain alphanumeric characters and space ([ a-zA-Z0-9]).
//  3. Must NOT be a valid ISIN.
type ID string

// ParseID validates s as either an ISIN or a private identifier.
func ParseID(s string) (ID, error) {
	if err := ValidateISIN(s); err == nil {
		return ID(s), nil
	}
	if isinRegex.MatchString(s) {
		// Looks like an ISIN, so the check digit must be right.
		return "", fmt.Errorf("invalid id %q: %w", s, ValidateISIN(s))
	}
	if len(s) < 7 {
		return "", fmt.Errorf("invalid id %q: must be at least 7 characters long, got %d", s, len(s))
	}
	if !idCharRegex.MatchString(s) {
		return "", fmt.Errorf("invalid id %q: must only contain alphanumeric characters and spaces", s)
	}
	return ID(s), nil
}

// IsISIN reports whether the identifier is a valid ISIN.
func (id ID) IsISIN() bool { return ValidateISIN(string(id)) == nil }

// String implements the fmt.Stringer interface.
func (id ID) String() string { return string(id) }

// ValidateISIN checks if a string is a validly formatted ISIN.
// It returns nil if valid, or a descriptive error if invalid.
func ValidateISIN(isin string) error {
	if len(isin) != 12 {
		return fmt.Errorf("invalid length: must be 12 characters, got %d", len(isin))
	}
	if !isinRegex.MatchString(isin) {
		return fmt.Errorf("invalid format: must be 2 uppercase letters, 9 alphanumeric chars, and 1 digit")
	}

	// Convert letters to numbers for check digit calculation
	var numericStr strings.Builder
	for _, char := range isin[:11] {
		if char >= 'A' && char <= 'Z' {
			numericStr.WriteString(strconv.Itoa(int(char - 'A' + 10)))
		} else {
			numericStr.WriteRune(char)
		}
	}

	// Luhn, doubling from the rightmost digit.
	sum := 0
	isSecond := true
	digits := numericStr.String()
	for i := len(digits) - 1; i >= 0; i-- {
		digit := int(digits[i] - '0')
		if isSecond {
			digit *= 2
		}
		sum += (digit / 10) + (digit % 10)
		isSecond = !isSecond
	}

	expectedCheckDigit := (10 - (sum % 10)) % 10
	actualCheckDigit := int(isin[11] - '0')
	if expectedCheckDigit != actualCheckDigit {
		return fmt.Errorf("invalid check digit: expected %d, got %d", expectedCheckDigit, actualCheckDigit)
	}
	return nil
}
