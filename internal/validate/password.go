package validate

import "unicode"

// PasswordRules returns every rule the password violates, so a caller can
// surface all unmet requirements at once instead of one per attempt.
// An empty slice means the password is acceptable.
func PasswordRules(password string) []string {
	var violated []string
	if len(password) < 8 {
		violated = append(violated, "at least 8 characters")
	}
	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasLower {
		violated = append(violated, "a lowercase letter")
	}
	if !hasUpper {
		violated = append(violated, "an uppercase letter")
	}
	if !hasDigit {
		violated = append(violated, "a digit")
	}
	if !hasSpecial {
		violated = append(violated, "a special character")
	}
	return violated
}
