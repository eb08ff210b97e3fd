package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAccessToken(t *testing.T) {
	t.Run("Header preferred", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie_token"})
		req.Header.Set("Authorization", "Bearer header_token")

		assert.Equal(t, "header_token", ExtractAccessToken(req))
	})

	t.Run("Cookie fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie_token"})

		assert.Equal(t, "cookie_token", ExtractAccessToken(req))
	})

	t.Run("Malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic user:pass")

		assert.Empty(t, ExtractAccessToken(req))
	})
}

func TestTokenManager(t *testing.T) {
	p := Principal{UserID: "u-1", Email: "jane@example.com", Role: RoleAdmin}

	t.Run("Round trip", func(t *testing.T) {
		m := NewTokenManager("secret")
		token, err := m.Generate(p)
		require.NoError(t, err)

		got, err := m.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := NewTokenManager("secret").Generate(p)
		require.NoError(t, err)

		_, err = NewTokenManager("other").Parse(token)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		m := NewTokenManager("secret")
		m.now = func() time.Time { return time.Now().Add(-31 * 24 * time.Hour) }
		token, err := m.Generate(p)
		require.NoError(t, err)

		_, err = NewTokenManager("secret").Parse(token)
		assert.Error(t, err)
	})

	t.Run("Missing secret", func(t *testing.T) {
		_, err := NewTokenManager("").Generate(p)
		assert.ErrorIs(t, err, ErrMissingSecret)
	})
}

func TestPrincipal(t *testing.T) {
	user := Principal{UserID: "u-1", Role: RoleUser}
	admin := Principal{UserID: "a-1", Role: RoleAdmin}

	assert.True(t, user.CanAccess("u-1"))
	assert.False(t, user.CanAccess("u-2"))
	assert.True(t, admin.CanAccess("u-2"))

	ctx := WithPrincipal(context.Background(), user)
	got, ok := PrincipalFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, user, got)

	_, ok = PrincipalFrom(context.Background())
	assert.False(t, ok)
}
