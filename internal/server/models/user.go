// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account record. Email is unique and immutable after
// registration. PasswordHash is the PBKDF2 digest of the password with
// the per-user Salt; the plaintext is never stored.
type User struct {
	ID           string
	Email        string
	Salt         []byte
	PasswordHash []byte
	CreatedAt    time.Time
}
