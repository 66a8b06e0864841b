// Package models defines the persisted vault types and the plaintext
// structure carried inside an entry's ciphertext.
package models

// User is the credential record for one registered vault owner.
// Salt and Verifier are mutated only by a successful master key rotation.
type User struct {
	// ID is an opaque stable identifier assigned at registration.
	ID string

	// Username is unique across the store, case-sensitive.
	Username string

	// Salt is the 16-byte KDF salt generated at registration.
	Salt []byte

	// Verifier is a one-way hash of the derived master key, compared on login.
	Verifier []byte
}

// Entry is one stored secret, owned by exactly one user.
type Entry struct {
	// ID is unique within the store, assigned at creation.
	ID string

	// UserID references the owning User. Entries are never visible outside
	// the owner's session.
	UserID string

	// Name is the plaintext label used for listing without decryption.
	Name string

	// Data is the opaque AEAD ciphertext of the JSON-encoded EntryPayload.
	Data []byte
}

// EntryPayload is the plaintext structure inside Entry.Data. It is encrypted
// and decrypted as one unit; fields are not independently addressable.
type EntryPayload struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Username string `json:"username"`
	Password string `json:"password"`
	Notes    string `json:"notes"`
}
