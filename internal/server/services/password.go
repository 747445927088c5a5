package services

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/pbkdf2"
)

// Password hashing parameters. The hash is deterministic for a given
// (password, salt) pair, so verification recomputes it and compares in
// constant time.
const (
	pbkdf2Iterations = 4096
	pbkdf2KeyLength  = 32
	saltLength       = 16
)

func hashPassword(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
}

func checkPassword(stored []byte, password string, salt []byte) bool {
	return subtle.ConstantTimeCompare(stored, hashPassword(password, salt)) == 1
}
