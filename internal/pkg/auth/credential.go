package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost matches the salt rounds the legacy deployment used.
const BcryptCost = 10

// CredentialKind tags how a stored password value is encoded.
type CredentialKind int

const (
	// CredentialPlaintext is the legacy/demo encoding: the raw password.
	CredentialPlaintext CredentialKind = iota
	// CredentialHashed is a bcrypt hash.
	CredentialHashed
)

// Credential is a stored password value together with its encoding.
// Classification happens once, from the stored string itself; everything
// downstream switches on the tag instead of re-sniffing prefixes.
type Credential struct {
	Kind  CredentialKind
	Value string
}

// ParseCredential classifies a stored password value.
func ParseCredential(stored string) Credential {
	if isBcryptHash(stored) {
		return Credential{Kind: CredentialHashed, Value: stored}
	}
	return Credential{Kind: CredentialPlaintext, Value: stored}
}

// Verify reports whether raw matches the stored credential.
func (c Credential) Verify(raw string) bool {
	switch c.Kind {
	case CredentialHashed:
		return bcrypt.CompareHashAndPassword([]byte(c.Value), []byte(raw)) == nil
	default:
		return c.Value == raw
	}
}

// PasswordHasher turns raw passwords into storable values according to the
// configured hashing mode, and decides when a stored value needs the
// one-way plaintext-to-hash migration.
type PasswordHasher struct {
	hashEnabled bool
}

// NewPasswordHasher creates a PasswordHasher. hashEnabled=false is the
// legacy/demo mode where passwords are stored and compared in plaintext.
func NewPasswordHasher(hashEnabled bool) *PasswordHasher {
	return &PasswordHasher{hashEnabled: hashEnabled}
}

// HashEnabled reports the active mode.
func (h *PasswordHasher) HashEnabled() bool {
	return h.hashEnabled
}

// ToStorable produces the value persisted for a raw password.
func (h *PasswordHasher) ToStorable(raw string) (string, error) {
	if !h.hashEnabled {
		return raw, nil
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(raw), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// NeedsRehash reports whether a stored credential should be migrated:
// hashing is on and the stored value is still plaintext. Migration runs
// verify-then-rehash after a successful login, never in bulk.
func (h *PasswordHasher) NeedsRehash(c Credential) bool {
	return h.hashEnabled && c.Kind == CredentialPlaintext
}

func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}
