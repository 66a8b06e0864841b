// Package common defines shared sentinel errors and small helpers used across
// passkeeper components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotAuthenticated   = errors.New("not authenticated")

	// Crypto errors. One sentinel regardless of whether the key was wrong
	// or the ciphertext was tampered with.
	ErrDecryptFailed = errors.New("decryption failed")

	// Rotation errors.
	ErrIncorrectOldPassword = errors.New("incorrect current master password")
	ErrSamePassword         = errors.New("new master password must differ from the old one")
	ErrWeakPassword         = errors.New("new master password is too weak")
	ErrRotationFailed       = errors.New("master key rotation failed")
)
