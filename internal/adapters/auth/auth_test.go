package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodAressss/orders-batch-service/pkg/constant"
)

func signedToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func TestAuthenticate_ValidTokenSucceeds(t *testing.T) {
	v := NewVerifier("shared-secret")
	token := signedToken(t, "shared-secret", time.Now().Add(time.Hour))

	_, err := v.Authenticate(context.Background(), "Bearer "+token)

	assert.NoError(t, err)
}

func TestAuthenticate_ValidTokenReturnsPrincipal(t *testing.T) {
	v := NewVerifier("shared-secret")

	claims := jwt.MapClaims{
		"sub":    "user-42",
		"exp":    jwt.NewNumericDate(time.Now().Add(time.Hour)).Unix(),
		"scopes": []any{"orders:write", "orders:read"},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	principal, err := v.Authenticate(context.Background(), "Bearer "+signed)

	require.NoError(t, err)
	assert.Equal(t, "user-42", principal.Subject)
	assert.Equal(t, []string{"orders:write", "orders:read"}, principal.Scopes)
}

func TestAuthenticate_ExpiredTokenRejected(t *testing.T) {
	v := NewVerifier("shared-secret")
	token := signedToken(t, "shared-secret", time.Now().Add(-time.Hour))

	_, err := v.Authenticate(context.Background(), "Bearer "+token)

	assert.ErrorIs(t, err, constant.ErrUnauthorized)
}

func TestAuthenticate_WrongSecretRejected(t *testing.T) {
	v := NewVerifier("shared-secret")
	token := signedToken(t, "other-secret", time.Now().Add(time.Hour))

	_, err := v.Authenticate(context.Background(), "Bearer "+token)

	assert.ErrorIs(t, err, constant.ErrUnauthorized)
}

func TestAuthenticate_MissingBearerPrefixRejected(t *testing.T) {
	v := NewVerifier("shared-secret")
	token := signedToken(t, "shared-secret", time.Now().Add(time.Hour))

	_, err := v.Authenticate(context.Background(), token)

	assert.ErrorIs(t, err, constant.ErrUnauthorized)
}

func TestAuthenticate_EmptyHeaderRejected(t *testing.T) {
	v := NewVerifier("shared-secret")

	_, err := v.Authenticate(context.Background(), "")

	assert.ErrorIs(t, err, constant.ErrUnauthorized)
}
