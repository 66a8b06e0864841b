package vault

import (
	"bytes"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/vkuzmenko/passkeeper/internal/common"
	"github.com/vkuzmenko/passkeeper/internal/cryptox"
	"github.com/vkuzmenko/passkeeper/internal/dbx"
)

// RotateMasterKey changes the session user's master password. Every stored
// entry is decrypted with the old key, re-encrypted with the new key, and
// persisted together with the new salt and verifier inside one transaction:
// either everything changes or nothing does. A failure partway rolls the
// whole rotation back and leaves the vault readable with the old password.
//
// On success the session keeps working: its in-memory key is swapped to the
// new one and the old key bytes are wiped.
func (s *Service) RotateMasterKey(ctx context.Context, sess *Session, oldPassword, newPassword string) error {
	if !sess.active() {
		return common.ErrNotAuthenticated
	}

	user, err := s.repos.Users(s.db).GetByUsername(ctx, sess.username)
	if err != nil {
		return fmt.Errorf("error loading user: %w", err)
	}

	oldKey := cryptox.DeriveMasterKey([]byte(oldPassword), user.Salt)
	defer common.WipeByteArray(oldKey)
	if subtle.ConstantTimeCompare(cryptox.MakeVerifier(oldKey), user.Verifier) != 1 {
		return common.ErrIncorrectOldPassword
	}

	if newPassword == oldPassword {
		return common.ErrSamePassword
	}
	if strong, _ := s.policy.CheckPasswordStrength(newPassword); !strong {
		return common.ErrWeakPassword
	}

	newSalt := cryptox.GenerateSalt()
	for bytes.Equal(newSalt, user.Salt) {
		newSalt = cryptox.GenerateSalt()
	}
	newKey := cryptox.DeriveMasterKey([]byte(newPassword), newSalt)
	newVerifier := cryptox.MakeVerifier(newKey)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		entriesRepo := s.repos.Entries(tx)

		rows, err := entriesRepo.GetAllByUser(ctx, sess.userID)
		if err != nil {
			return fmt.Errorf("error loading entries: %w", err)
		}

		for _, entry := range rows {
			plaintext, err := cryptox.Decrypt(oldKey, entry.Data)
			if err != nil {
				return fmt.Errorf("entry %s: %w", entry.ID, err)
			}
			reEncrypted, err := cryptox.Encrypt(newKey, plaintext)
			common.WipeByteArray(plaintext)
			if err != nil {
				return fmt.Errorf("entry %s: %w", entry.ID, err)
			}
			if err := entriesRepo.Update(ctx, entry.ID, sess.userID, entry.Name, reEncrypted); err != nil {
				return fmt.Errorf("entry %s: %w", entry.ID, err)
			}
		}

		return s.repos.Users(tx).UpdateKeyMaterial(ctx, sess.userID, newSalt, newVerifier)
	})
	if err != nil {
		common.WipeByteArray(newKey)
		s.log.Error(ctx, "master key rotation rolled back", "user_id", sess.userID, "error", err.Error())
		return errors.Join(common.ErrRotationFailed, err)
	}

	sess.replaceKey(newKey)
	s.log.Info(ctx, "master key rotated", "user_id", sess.userID)
	return nil
}
