package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid", "Secreta123!", true},
		{"too short", "Ab1!", false},
		{"no uppercase", "secreta123!", false},
		{"no digit", "SecretaAbc!", false},
		{"no special", "Secreta1234", false},
		{"wrong special", "Secreta123.", false},
		{"exactly ten chars", "Abcdefg1!x", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrWeakPassword)
			}
		})
	}
}

func TestGeneratePasswordSatisfiesPolicy(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		password, err := GeneratePassword()
		require.NoError(t, err)
		assert.Len(t, password, generatedLength)
		assert.NoError(t, ValidatePassword(password))
		seen[password] = true
	}
	assert.Greater(t, len(seen), 1, "generator must not repeat itself")
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Secreta123!")
	require.NoError(t, err)
	assert.False(t, strings.Contains(hash, "Secreta123!"))

	assert.True(t, VerifyPassword(hash, "Secreta123!"))
	assert.False(t, VerifyPassword(hash, "otra"))
}
