package user

import "strings"

const specialChars = "@$!%*?&"

// ValidPassword reports whether pw satisfies the password policy: at least
// 8 characters with an uppercase letter, a lowercase letter, a digit and a
// special character.
func ValidPassword(pw string) bool {
	if len(pw) < 8 {
		return false
	}

	var upper, lower, digit, special bool
	for _, c := range pw {
		switch {
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune(specialChars, c):
			special = true
		}
	}
	return upper && lower && digit && special
}
