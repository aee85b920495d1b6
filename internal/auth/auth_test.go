package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, hasher.Verify("secret1", hash))
	assert.False(t, hasher.Verify("secret2", hash))
	assert.False(t, hasher.Verify("secret1", "not-a-hash"))
}

func TestBcryptHasherClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.MaxCost, NewBcryptHasher(99).cost)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer(TokenConfig{Secret: "s3cret", TTL: time.Minute, Issuer: "family-hub"})
	require.NoError(t, err)

	token, err := issuer.Issue("user-1")
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)

	subject, err := issuer.Verify(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

func TestTokenRejected(t *testing.T) {
	issuer, err := NewTokenIssuer(TokenConfig{Secret: "s3cret", TTL: time.Minute, Issuer: "family-hub"})
	require.NoError(t, err)

	start := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return start }
	token, err := issuer.Issue("user-1")
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = issuer.Verify(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired token")

	other, err := NewTokenIssuer(TokenConfig{Secret: "different", TTL: time.Minute, Issuer: "family-hub"})
	require.NoError(t, err)
	other.now = func() time.Time { return start }
	_, err = other.Verify(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	foreign, err := NewTokenIssuer(TokenConfig{Secret: "s3cret", TTL: time.Minute, Issuer: "someone-else"})
	require.NoError(t, err)
	foreign.now = func() time.Time { return start }
	_, err = foreign.Verify(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong issuer")

	issuer.now = func() time.Time { return start }
	_, err = issuer.Verify("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer(TokenConfig{})
	assert.ErrorIs(t, err, ErrSecretMissing)
}
