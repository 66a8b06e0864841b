// Package cryptox implements the cryptographic core of the vault: master key
// derivation from the user's password, the stored login verifier, and
// authenticated encryption of entry payloads.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/vkuzmenko/passkeeper/internal/common"
)

// Argon2id parameters. Floor values, not tunables.
const (
	kdfTime    = 3
	kdfMemory  = 64 * 1024 // KiB
	kdfThreads = 2

	SaltLength = 16
	KeyLength  = 32

	nonceLength = 12
)

// GenerateSalt returns a fresh random KDF salt.
func GenerateSalt() []byte {
	return common.GenerateRandByteArray(SaltLength)
}

// DeriveMasterKey derives the 32-byte master key from a password and salt
// using Argon2id. Deterministic: same inputs always yield the same key.
// The call is deliberately expensive (memory-hard) to resist offline
// brute force.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, kdfTime, kdfMemory, kdfThreads, KeyLength)
}

// MakeVerifier returns the value stored for login checks: a one-way hash of
// the master key. The credential record therefore never contains the
// encryption key itself.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// Encrypt seals plaintext under key with AES-256-GCM. A fresh random nonce is
// generated per call and prepended to the sealed bytes, so encrypting the
// same plaintext twice yields different ciphertexts.
func Encrypt(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher init error: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher init error: %w", err)
	}

	nonce := common.GenerateRandByteArray(nonceLength)
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt. It returns common.ErrDecryptFailed
// for a wrong key, a tampered or truncated blob alike; callers learn only
// that decryption failed, not why.
func Decrypt(key, blob []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher init error: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher init error: %w", err)
	}

	if len(blob) < nonceLength {
		return nil, common.ErrDecryptFailed
	}
	nonce, ciphertext := blob[:nonceLength], blob[nonceLength:]

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrDecryptFailed
	}
	return plaintext, nil
}
