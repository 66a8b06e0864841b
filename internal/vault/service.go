// Package vault implements the credential vault core: registration, login,
// CRUD on encrypted entries, and master key rotation. It is the only entry
// point for presentation layers; repositories and crypto primitives are never
// exposed to callers.
package vault

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vkuzmenko/passkeeper/internal/common"
	"github.com/vkuzmenko/passkeeper/internal/cryptox"
	"github.com/vkuzmenko/passkeeper/internal/logging"
	"github.com/vkuzmenko/passkeeper/internal/models"
	"github.com/vkuzmenko/passkeeper/internal/policy"
	"github.com/vkuzmenko/passkeeper/internal/repositories/repomanager"
)

// ValidationError reports input rejected by the policy collaborator. The
// message is safe to surface verbatim to the user.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// EntryInfo is a listing row: the plaintext label only, no decryption needed.
type EntryInfo struct {
	ID   string
	Name string
}

// Service orchestrates key derivation, the cipher, and the entry store.
type Service struct {
	db     *sql.DB
	repos  repomanager.Manager
	policy policy.Policy
	log    logging.Logger
}

// NewService constructs the vault core.
func NewService(db *sql.DB, repos repomanager.Manager, p policy.Policy, log logging.Logger) *Service {
	return &Service{db: db, repos: repos, policy: p, log: log}
}

// Register creates a new user: policy check, fresh salt, key derivation, and
// a one-way verifier persisted alongside. It does not authenticate the caller.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if err := s.policy.ValidateUsername(username); err != nil {
		return &ValidationError{msg: err.Error()}
	}
	if strong, _ := s.policy.CheckPasswordStrength(password); !strong {
		return common.ErrWeakPassword
	}

	salt := cryptox.GenerateSalt()
	key := cryptox.DeriveMasterKey([]byte(password), salt)
	defer common.WipeByteArray(key)

	user := &models.User{
		ID:       uuid.NewString(),
		Username: username,
		Salt:     salt,
		Verifier: cryptox.MakeVerifier(key),
	}
	if err := s.repos.Users(s.db).Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return nil
}

// Login authenticates username/password and returns a live Session holding
// the derived master key in memory. Unknown usernames and wrong passwords
// produce the same common.ErrInvalidCredentials; the KDF runs in both cases
// so timing does not reveal whether the user exists.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.repos.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Burn the same KDF cost as a real attempt.
			key := cryptox.DeriveMasterKey([]byte(password), cryptox.GenerateSalt())
			common.WipeByteArray(key)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	key := cryptox.DeriveMasterKey([]byte(password), user.Salt)
	if subtle.ConstantTimeCompare(cryptox.MakeVerifier(key), user.Verifier) != 1 {
		common.WipeByteArray(key)
		return nil, common.ErrInvalidCredentials
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return &Session{userID: user.ID, username: user.Username, masterKey: key}, nil
}

// AddEntry validates, encrypts, and stores a new secret for the session's
// user. Returns the new entry ID.
func (s *Service) AddEntry(ctx context.Context, sess *Session, p models.EntryPayload) (string, error) {
	if !sess.active() {
		return "", common.ErrNotAuthenticated
	}
	if err := s.policy.ValidateEntry(p.Name, p.Address, p.Username, p.Password, p.Notes); err != nil {
		return "", &ValidationError{msg: err.Error()}
	}

	data, err := sealPayload(sess.masterKey, p)
	if err != nil {
		return "", err
	}

	entry := &models.Entry{
		ID:     uuid.NewString(),
		UserID: sess.userID,
		Name:   p.Name,
		Data:   data,
	}
	if err := s.repos.Entries(s.db).Insert(ctx, entry); err != nil {
		return "", fmt.Errorf("error saving entry: %w", err)
	}

	s.log.Info(ctx, "entry added", "user_id", sess.userID, "entry_id", entry.ID)
	return entry.ID, nil
}

// ListEntries returns the id and plaintext label of every entry owned by the
// session's user, without decrypting anything.
func (s *Service) ListEntries(ctx context.Context, sess *Session) ([]EntryInfo, error) {
	if !sess.active() {
		return nil, common.ErrNotAuthenticated
	}

	rows, err := s.repos.Entries(s.db).GetAllByUser(ctx, sess.userID)
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}

	result := make([]EntryInfo, 0, len(rows))
	for _, row := range rows {
		result = append(result, EntryInfo{ID: row.ID, Name: row.Name})
	}
	return result, nil
}

// GetEntry loads and decrypts a single entry owned by the session's user.
// A foreign or missing ID yields common.ErrorNotFound either way; a blob that
// fails to decrypt yields common.ErrDecryptFailed.
func (s *Service) GetEntry(ctx context.Context, sess *Session, id string) (*models.EntryPayload, error) {
	if !sess.active() {
		return nil, common.ErrNotAuthenticated
	}

	entry, err := s.repos.Entries(s.db).GetByID(ctx, id, sess.userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading entry: %w", err)
	}

	return openPayload(sess.masterKey, entry.Data)
}

// UpdateEntry re-encrypts an entry in place with new payload content.
func (s *Service) UpdateEntry(ctx context.Context, sess *Session, id string, p models.EntryPayload) error {
	if !sess.active() {
		return common.ErrNotAuthenticated
	}
	if err := s.policy.ValidateEntry(p.Name, p.Address, p.Username, p.Password, p.Notes); err != nil {
		return &ValidationError{msg: err.Error()}
	}

	data, err := sealPayload(sess.masterKey, p)
	if err != nil {
		return err
	}

	if err := s.repos.Entries(s.db).Update(ctx, id, sess.userID, p.Name, data); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error updating entry: %w", err)
	}

	s.log.Info(ctx, "entry updated", "user_id", sess.userID, "entry_id", id)
	return nil
}

// DeleteEntry removes an entry owned by the session's user.
func (s *Service) DeleteEntry(ctx context.Context, sess *Session, id string) error {
	if !sess.active() {
		return common.ErrNotAuthenticated
	}

	if err := s.repos.Entries(s.db).DeleteByID(ctx, id, sess.userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting entry: %w", err)
	}

	s.log.Info(ctx, "entry deleted", "user_id", sess.userID, "entry_id", id)
	return nil
}

// sealPayload marshals the payload and encrypts it as one unit.
func sealPayload(key []byte, p models.EntryPayload) ([]byte, error) {
	plaintext, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}
	data, err := cryptox.Encrypt(key, plaintext)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}
	return data, nil
}

// openPayload decrypts a stored blob and unmarshals the payload.
func openPayload(key, blob []byte) (*models.EntryPayload, error) {
	plaintext, err := cryptox.Decrypt(key, blob)
	if err != nil {
		return nil, err
	}
	p := &models.EntryPayload{}
	if err := json.Unmarshal(plaintext, p); err != nil {
		return nil, fmt.Errorf("decoding error: %w", err)
	}
	return p, nil
}
