package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secret = "test-secret"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("user123")
	require.NoError(t, err)
	assert.NotEqual(t, "user123", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cost, 10)

	assert.True(t, CheckPassword(hash, "user123"))
	assert.False(t, CheckPassword(hash, "user124"))
	assert.False(t, CheckPassword("not-a-hash", "user123"))
}

func TestTokenRoundTrip(t *testing.T) {
	s := NewSigner(secret, 0)
	assert.Equal(t, 24*time.Hour, s.TTL())

	tok, err := s.MakeToken("u-1")
	require.NoError(t, err)

	c, err := s.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.UserID)

	diff := time.Until(c.ExpiresAt.Time)
	assert.InDelta(t, float64(24*time.Hour), float64(diff), float64(time.Minute))
}

func TestTokenExpiry(t *testing.T) {
	t0 := time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)
	issuer := NewSigner(secret, 24*time.Hour).WithClock(func() time.Time { return t0 })
	tok, err := issuer.MakeToken("u-1")
	require.NoError(t, err)

	at := func(d time.Duration) *Signer {
		return issuer.WithClock(func() time.Time { return t0.Add(d) })
	}

	_, err = at(23*time.Hour + 59*time.Minute).ParseToken(tok)
	assert.NoError(t, err, "token must still be valid just before 24h")

	_, err = at(24*time.Hour + time.Minute).ParseToken(tok)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestAlgorithmConfusion(t *testing.T) {
	s := NewSigner(secret, time.Hour)
	tok, _ := s.MakeToken("uid")

	_, err := NewSigner("wrong-secret", time.Hour).ParseToken(tok)
	assert.Error(t, err, "wrong secret")

	_, err = s.ParseToken("not.a.token")
	assert.Error(t, err, "garbage")

	// alg=none must never verify
	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "uid",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.ParseToken(raw)
	assert.Error(t, err)
}

func TestTokenWithoutUserRejected(t *testing.T) {
	s := NewSigner(secret, time.Hour)
	tok, err := s.MakeToken("")
	require.NoError(t, err)
	_, err = s.ParseToken(tok)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestBurnPasswordDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { BurnPassword("anything") })
}
