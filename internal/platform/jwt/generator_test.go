package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateToken は生成したトークンが署名鍵で検証でき、クレームが正しいことを検証します。
func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	g := &generator{secret: []byte("test-secret"), expiration: time.Hour, now: func() time.Time { return fixed }}

	signed, err := g.GenerateToken("research-team")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return fixed }))
	require.NoError(t, err)

	assert.Equal(t, "research-team", claims.Subject)
	assert.Equal(t, fixed.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixed.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

// TestGenerateToken_EmptySubject は空のsubjectが拒否されることを検証します。
func TestGenerateToken_EmptySubject(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator("test-secret", time.Hour).GenerateToken("")
	assert.ErrorIs(t, err, ErrEmptySubject)
}

// TestGenerateToken_WrongSecretFails は別の鍵では検証に失敗することを検証します。
func TestGenerateToken_WrongSecretFails(t *testing.T) {
	t.Parallel()

	signed, err := NewGenerator("test-secret", time.Hour).GenerateToken("research-team")
	require.NoError(t, err)

	_, err = jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}
