package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, salt := HashPassword("correct horse battery")
	assert.Len(t, salt, saltSize)
	assert.Len(t, hash, argonKeyLen)

	assert.True(t, VerifyPassword("correct horse battery", hash, salt))
	assert.False(t, VerifyPassword("correct horse", hash, salt))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, s1 := HashPassword("same-password")
	h2, s2 := HashPassword("same-password")
	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, h1, h2)
}
