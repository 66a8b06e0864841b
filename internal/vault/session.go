package vault

import "github.com/vkuzmenko/passkeeper/internal/common"

// Session holds an authenticated user's identity and in-memory key material.
// It is returned by Service.Login and passed to every subsequent call, so
// multiple sessions can coexist and lifetime is caller-controlled. A Session
// is not safe for concurrent use by multiple goroutines.
type Session struct {
	userID    string
	username  string
	masterKey []byte
}

// UserID returns the authenticated user's identifier.
func (s *Session) UserID() string { return s.userID }

// Username returns the authenticated user's name.
func (s *Session) Username() string { return s.username }

// Logout wipes the in-memory key material. Idempotent; the session is
// unusable afterwards.
func (s *Session) Logout() {
	if s == nil {
		return
	}
	common.WipeByteArray(s.masterKey)
	s.masterKey = nil
}

// active reports whether the session still holds key material.
func (s *Session) active() bool {
	return s != nil && s.masterKey != nil
}

// replaceKey swaps in new key material, wiping the old bytes first.
func (s *Session) replaceKey(key []byte) {
	common.WipeByteArray(s.masterKey)
	s.masterKey = key
}
