package vault

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vkuzmenko/passkeeper/internal/common"
	"github.com/vkuzmenko/passkeeper/internal/logging"
	"github.com/vkuzmenko/passkeeper/internal/models"
	"github.com/vkuzmenko/passkeeper/internal/policy"
	"github.com/vkuzmenko/passkeeper/internal/repositories/repomanager"
)

const schema = `
CREATE TABLE users (
    id       TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    salt     BLOB NOT NULL,
    verifier BLOB NOT NULL
);
CREATE TABLE entries (
    id      TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name    TEXT NOT NULL,
    data    BLOB NOT NULL
);
`

func setupDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)
	return db
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newService(t *testing.T, name string) (*Service, *sql.DB) {
	t.Helper()
	db := setupDB(t, name)
	svc := NewService(db, repomanager.NewSQLiteManager(), policy.NewDefault(), discardLogger())
	return svc, db
}

func samplePayload() models.EntryPayload {
	return models.EntryPayload{
		Name:     "Email",
		Address:  "https://mail.example.com",
		Username: "alice@example.com",
		Password: "s3cret-value",
		Notes:    "personal mailbox",
	}
}

func TestRegisterAndLogin_Lifecycle(t *testing.T) {
	svc, _ := newService(t, "vault_lifecycle")
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "Tr0ub4dor&3xtra!"))

	_, err := svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	sess, err := svc.Login(ctx, "alice", "Tr0ub4dor&3xtra!")
	require.NoError(t, err)
	require.NotEmpty(t, sess.UserID())
	assert.Equal(t, "alice", sess.Username())

	// Login after logout succeeds identically to the first login.
	sess.Logout()
	sess.Logout() // idempotent

	sess2, err := svc.Login(ctx, "alice", "Tr0ub4dor&3xtra!")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID(), sess2.UserID())
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := newService(t, "vault_unknown")

	_, err := svc.Login(context.Background(), "nobody", "whatever")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newService(t, "vault_dup")
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "first-Password1!"))
	err := svc.Register(ctx, "alice", "other-Password2!")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_InvalidUsername(t *testing.T) {
	svc, _ := newService(t, "vault_badname")

	err := svc.Register(context.Background(), "bad name!", "Tr0ub4dor&3xtra!")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRegister_WeakPassword(t *testing.T) {
	svc, _ := newService(t, "vault_weakpw")

	err := svc.Register(context.Background(), "alice", "short")
	assert.ErrorIs(t, err, common.ErrWeakPassword)
}

func TestEntryCRUD(t *testing.T) {
	svc, _ := newService(t, "vault_crud")
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "Tr0ub4dor&3xtra!"))
	sess, err := svc.Login(ctx, "alice", "Tr0ub4dor&3xtra!")
	require.NoError(t, err)

	id, err := svc.AddEntry(ctx, sess, samplePayload())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	list, err := svc.ListEntries(ctx, sess)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Email", list[0].Name)

	got, err := svc.GetEntry(ctx, sess, id)
	require.NoError(t, err)
	assert.Equal(t, samplePayload(), *got)

	updated := samplePayload()
	updated.Name = "Email (work)"
	updated.Password = "new-s3cret"
	require.NoError(t, svc.UpdateEntry(ctx, sess, id, updated))

	got, err = svc.GetEntry(ctx, sess, id)
	require.NoError(t, err)
	assert.Equal(t, updated, *got)

	require.NoError(t, svc.DeleteEntry(ctx, sess, id))
	_, err = svc.GetEntry(ctx, sess, id)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	err = svc.DeleteEntry(ctx, sess, id)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestEntryOps_RequireAuthentication(t *testing.T) {
	svc, _ := newService(t, "vault_noauth")
	ctx := context.Background()

	var nilSess *Session
	_, err := svc.AddEntry(ctx, nilSess, samplePayload())
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
	_, err = svc.ListEntries(ctx, nilSess)
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)

	require.NoError(t, svc.Register(ctx, "alice", "Tr0ub4dor&3xtra!"))
	sess, err := svc.Login(ctx, "alice", "Tr0ub4dor&3xtra!")
	require.NoError(t, err)
	sess.Logout()

	_, err = svc.GetEntry(ctx, sess, "some-id")
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
	err = svc.UpdateEntry(ctx, sess, "some-id", samplePayload())
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
	err = svc.DeleteEntry(ctx, sess, "some-id")
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
	err = svc.RotateMasterKey(ctx, sess, "Tr0ub4dor&3xtra!", "NewSecret#2024!!")
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
}

func TestAddEntry_ValidationRejected(t *testing.T) {
	svc, _ := newService(t, "vault_badentry")
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "Tr0ub4dor&3xtra!"))
	sess, err := svc.Login(ctx, "alice", "Tr0ub4dor&3xtra!")
	require.NoError(t, err)

	p := samplePayload()
	p.Name = ""
	_, err = svc.AddEntry(ctx, sess, p)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestNoCrossUserLeakage(t *testing.T) {
	svc, _ := newService(t, "vault_crossuser")
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "Tr0ub4dor&3xtra!"))
	require.NoError(t, svc.Register(ctx, "bob", "An0ther-Passw0rd!"))

	alice, err := svc.Login(ctx, "alice", "Tr0ub4dor&3xtra!")
	require.NoError(t, err)
	bob, err := svc.Login(ctx, "bob", "An0ther-Passw0rd!")
	require.NoError(t, err)

	id, err := svc.AddEntry(ctx, alice, samplePayload())
	require.NoError(t, err)

	// Bob sees NotFound for Alice's entry, identical to a missing ID.
	_, err = svc.GetEntry(ctx, bob, id)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, errMissing := svc.GetEntry(ctx, bob, "no-such-id")
	assert.Equal(t, errMissing, err)

	err = svc.UpdateEntry(ctx, bob, id, samplePayload())
	assert.ErrorIs(t, err, common.ErrorNotFound)
	err = svc.DeleteEntry(ctx, bob, id)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	list, err := svc.ListEntries(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Alice still has her entry intact.
	got, err := svc.GetEntry(ctx, alice, id)
	require.NoError(t, err)
	assert.Equal(t, samplePayload(), *got)
}

func TestGetEntry_CorruptCiphertext(t *testing.T) {
	svc, db := newService(t, "vault_corrupt")
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "Tr0ub4dor&3xtra!"))
	sess, err := svc.Login(ctx, "alice", "Tr0ub4dor&3xtra!")
	require.NoError(t, err)

	id, err := svc.AddEntry(ctx, sess, samplePayload())
	require.NoError(t, err)

	_, err = db.Exec(`UPDATE entries SET data = x'deadbeef' WHERE id = ?`, id)
	require.NoError(t, err)

	_, err = svc.GetEntry(ctx, sess, id)
	assert.ErrorIs(t, err, common.ErrDecryptFailed)
	assert.False(t, errors.Is(err, common.ErrorNotFound))
}
