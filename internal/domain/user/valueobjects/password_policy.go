package valueobjects

import (
	"fmt"
	"unicode"
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

type charClass struct {
	label string
	match func(rune) bool
}

var (
	classLower = charClass{"lowercase letter", unicode.IsLower}
	classUpper = charClass{"uppercase letter", unicode.IsUpper}
	classDigit = charClass{"number", unicode.IsDigit}
)

// PasswordPolicy is a minimum length plus the character classes a password
// must contain.
type PasswordPolicy struct {
	MinLength int
	required  []charClass
}

// DefaultPasswordPolicy requires 8 characters with a lower case letter,
// an upper case letter and a digit.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength: 8,
		required:  []charClass{classLower, classUpper, classDigit},
	}
}

func (p PasswordPolicy) ValidatePassword(password string) error {
	switch n := len(password); {
	case n < p.MinLength:
		return fmt.Errorf("password must be at least %d characters long", p.MinLength)
	case n > maxPasswordBytes:
		return fmt.Errorf("password must not exceed %d characters", maxPasswordBytes)
	}

	for _, class := range p.required {
		if !containsClass(password, class) {
			return fmt.Errorf("password must contain at least one %s", class.label)
		}
	}
	return nil
}

func containsClass(s string, class charClass) bool {
	for _, r := range s {
		if class.match(r) {
			return true
		}
	}
	return false
}
