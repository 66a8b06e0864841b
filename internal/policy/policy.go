// Package policy validates usernames, entry fields, and master password
// strength. The vault core consults the Policy interface only; the concrete
// rules live here and can be swapped by the host application.
package policy

import (
	"fmt"
	"regexp"
	"unicode"
)

const (
	minPasswordLength   = 12
	minUsernameLength   = 3
	maxUsernameLength   = 50
	maxEntryNameLength  = 100
	maxEntryFieldLength = 250
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Policy is the validation collaborator consulted by the vault core.
type Policy interface {
	// ValidateUsername returns a descriptive error when the username is not
	// acceptable for registration.
	ValidateUsername(username string) error

	// CheckPasswordStrength reports whether a master password meets the
	// minimum policy, plus human-readable feedback lines.
	CheckPasswordStrength(password string) (bool, []string)

	// ValidateEntry checks the field limits of an entry payload.
	ValidateEntry(name, address, username, password, notes string) error
}

// Default implements Policy with the built-in rules.
type Default struct{}

func NewDefault() *Default { return &Default{} }

// ValidateUsername accepts 3-50 characters of letters, digits, and . _ -
func (p *Default) ValidateUsername(username string) error {
	if len(username) < minUsernameLength {
		return fmt.Errorf("username must be at least %d characters long", minUsernameLength)
	}
	if len(username) > maxUsernameLength {
		return fmt.Errorf("username length exceeds maximum of %d characters", maxUsernameLength)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, and . _ -")
	}
	return nil
}

// CheckPasswordStrength requires at least 12 characters with uppercase,
// lowercase, digit, and special character classes present.
func (p *Default) CheckPasswordStrength(password string) (bool, []string) {
	var feedback []string
	strong := true

	if len(password) < minPasswordLength {
		feedback = append(feedback, fmt.Sprintf("password must be at least %d characters long", minPasswordLength))
		strong = false
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	for _, check := range []struct {
		ok   bool
		what string
	}{
		{hasUpper, "uppercase letters"},
		{hasLower, "lowercase letters"},
		{hasDigit, "numbers"},
		{hasSpecial, "special characters"},
	} {
		if !check.ok {
			feedback = append(feedback, "password should include "+check.what)
			strong = false
		}
	}
	return strong, feedback
}

// ValidateEntry enforces the per-field limits: the label is mandatory and
// capped at 100 characters, the remaining fields may be empty but are capped
// at 250 characters each.
func (p *Default) ValidateEntry(name, address, username, password, notes string) error {
	if name == "" {
		return fmt.Errorf("entry name cannot be empty")
	}
	if len(name) > maxEntryNameLength {
		return fmt.Errorf("entry name length exceeds maximum of %d characters", maxEntryNameLength)
	}
	for _, f := range []struct {
		value string
		label string
	}{
		{address, "address"},
		{username, "entry username"},
		{password, "entry password"},
		{notes, "notes"},
	} {
		if len(f.value) > maxEntryFieldLength {
			return fmt.Errorf("%s length exceeds maximum of %d characters", f.label, maxEntryFieldLength)
		}
	}
	return nil
}
