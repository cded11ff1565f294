package auth

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 16

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

func derive(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// HashPassword returns an argon2id hash of password and the fresh salt used.
func HashPassword(password string) (hash, salt []byte) {
	salt = common.GenerateRandByteArray(saltSize)
	pw := []byte(password)
	defer common.WipeByteArray(pw)
	return derive(pw, salt), salt
}

// VerifyPassword compares in constant time.
func VerifyPassword(password string, hash, salt []byte) bool {
	pw := []byte(password)
	defer common.WipeByteArray(pw)
	return subtle.ConstantTimeCompare(derive(pw, salt), hash) == 1
}
