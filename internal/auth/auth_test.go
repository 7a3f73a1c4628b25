package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword("s3cret-pass", hash))
	assert.False(t, CheckPassword("wrong-pass", hash))
	assert.False(t, CheckPassword("s3cret-pass", "not-a-hash"))
}

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-input")
	require.NoError(t, err)
	h2, err := HashPassword("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestSigner_IssueAndParse(t *testing.T) {
	t.Parallel()

	signer := NewSigner("super-secret", "user-service-test", time.Hour)

	tok, err := signer.Issue(42, "alice", []string{"user"})
	require.NoError(t, err)

	claims, err := signer.Parse(tok)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, []string{"user"}, claims.Roles)
}

func TestSigner_Parse_Expired(t *testing.T) {
	t.Parallel()

	signer := NewSigner("super-secret", "user-service-test", -time.Second)

	tok, err := signer.Issue(1, "bob", []string{"user"})
	require.NoError(t, err)

	_, err = signer.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSigner_Parse_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewSigner("right-secret", "iss", time.Hour).Issue(1, "bob", nil)
	require.NoError(t, err)

	_, err = NewSigner("wrong-secret", "iss", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSigner_Parse_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewSigner("k", "iss", time.Hour).Parse("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
