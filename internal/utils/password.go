package utils

import "unicode"

const (
	passwordMinLength = 8
	passwordMaxLength = 128
)

// ValidatePasswordStrength checks every rule and returns all violations, not
// just the first, so a client can render a complete checklist.
func ValidatePasswordStrength(password string) (bool, []string) {
	var violations []string

	if len(password) < passwordMinLength {
		violations = append(violations, "password must be at least 8 characters")
	}
	if len(password) > passwordMaxLength {
		violations = append(violations, "password must be at most 128 characters")
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasLower {
		violations = append(violations, "password must contain a lowercase letter")
	}
	if !hasUpper {
		violations = append(violations, "password must contain an uppercase letter")
	}
	if !hasDigit {
		violations = append(violations, "password must contain a digit")
	}
	if !hasSymbol {
		violations = append(violations, "password must contain a symbol")
	}

	return len(violations) == 0, violations
}
