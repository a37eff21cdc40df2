package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	for _, plaintext := range []string{"p", "correct horse battery staple", "päss wörd"} {
		hash, err := HashPassword(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, hash)
		assert.True(t, CheckPassword(plaintext, hash))
		assert.False(t, CheckPassword(plaintext+"x", hash))
	}
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("secret")
	require.NoError(t, err)
	second, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestCheckPassword_MalformedHashFailsClosed(t *testing.T) {
	assert.False(t, CheckPassword("secret", ""))
	assert.False(t, CheckPassword("secret", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("secret", "$2a$xx$broken"))
}
