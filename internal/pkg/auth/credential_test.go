package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestParseCredential(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pass1234"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name   string
		stored string
		kind   CredentialKind
	}{
		{"bcrypt 2a", string(hash), CredentialHashed},
		{"bcrypt 2b prefix", "$2b$10$abcdefghijklmnopqrstuv", CredentialHashed},
		{"bcrypt 2y prefix", "$2y$10$abcdefghijklmnopqrstuv", CredentialHashed},
		{"plaintext", "pass1234", CredentialPlaintext},
		{"plaintext with dollar", "pa$$word", CredentialPlaintext},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, ParseCredential(tt.stored).Kind)
		})
	}
}

func TestCredential_Verify(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pass1234"), bcrypt.MinCost)
	require.NoError(t, err)

	hashed := ParseCredential(string(hash))
	assert.True(t, hashed.Verify("pass1234"))
	assert.False(t, hashed.Verify("wrong"))

	plain := ParseCredential("pass1234")
	assert.True(t, plain.Verify("pass1234"))
	assert.False(t, plain.Verify("wrong"))
}

func TestPasswordHasher_ToStorable(t *testing.T) {
	hashing := NewPasswordHasher(true)
	stored, err := hashing.ToStorable("pass1234")
	require.NoError(t, err)
	assert.Equal(t, CredentialHashed, ParseCredential(stored).Kind)
	assert.True(t, ParseCredential(stored).Verify("pass1234"))

	legacy := NewPasswordHasher(false)
	stored, err = legacy.ToStorable("pass1234")
	require.NoError(t, err)
	assert.Equal(t, "pass1234", stored)
}

func TestPasswordHasher_NeedsRehash(t *testing.T) {
	hashing := NewPasswordHasher(true)
	legacy := NewPasswordHasher(false)

	plain := ParseCredential("pass1234")
	hashed := ParseCredential("$2b$10$abcdefghijklmnopqrstuv")

	assert.True(t, hashing.NeedsRehash(plain))
	assert.False(t, hashing.NeedsRehash(hashed))
	assert.False(t, legacy.NeedsRehash(plain))
	assert.False(t, legacy.NeedsRehash(hashed))
}
