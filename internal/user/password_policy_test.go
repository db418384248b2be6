package user_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rdq-api/internal/user"
)

func TestValidPassword(t *testing.T) {
	valid := []string{"Str0ngPass!", "A1b2c3d4@", "xY9?zzzz"}
	for _, pw := range valid {
		assert.True(t, user.ValidPassword(pw), pw)
	}

	invalid := []string{
		"",
		"Sh0rt!a",       // under 8 characters
		"alllower1!",    // no uppercase
		"ALLUPPER1!",    // no lowercase
		"NoDigitsHere!", // no digit
		"NoSpecial99",   // no special character
		"Bad#Char99",    // special character outside the allowed set
	}
	for _, pw := range invalid {
		assert.False(t, user.ValidPassword(pw), pw)
	}
}
