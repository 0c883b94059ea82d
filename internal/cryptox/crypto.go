// Package cryptox hashes account credentials. Only the salt and an argon2id
// derived verifier are persisted; the credential itself never is.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of the random salt generated per account.
const SaltSize = 32

func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// RandomBytes returns n bytes from crypto/rand.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// NewCredential returns a fresh salt and the verifier for password.
func NewCredential(password []byte) (salt, verifier []byte) {
	salt = RandomBytes(SaltSize)
	key := DeriveKey(password, salt)
	defer Wipe(key)
	return salt, MakeVerifier(key)
}

// VerifyCredential reports whether password matches the stored salt and
// verifier. The comparison runs in constant time.
func VerifyCredential(password, salt, verifier []byte) bool {
	key := DeriveKey(password, salt)
	defer Wipe(key)
	return subtle.ConstantTimeCompare(MakeVerifier(key), verifier) == 1
}

// Wipe zeroes b.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
