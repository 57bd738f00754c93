package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satriahrh/lumi/config"
	"github.com/satriahrh/lumi/domain"
)

func testManager() *Manager {
	return NewManager(config.SessionConfig{
		Secret:     "test-secret",
		TTL:        time.Hour,
		CookieName: "lumi_session",
	})
}

var testUser = &domain.User{ID: "u-1", Email: "ana@lumi.com", Name: "Ana"}

func TestIssueAndParse(t *testing.T) {
	m := testManager()

	token, expires, err := m.Issue(testUser)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID())
	assert.Equal(t, "ana@lumi.com", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
}

func TestParseRejects(t *testing.T) {
	m := testManager()
	token, _, err := m.Issue(testUser)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewManager(config.SessionConfig{Secret: "other", TTL: time.Hour, CookieName: "lumi_session"})
		_, err := other.Parse(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		late := testManager()
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Parse(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not-a-token")
		assert.Error(t, err)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Parse(s)
		assert.Error(t, err)
	})

	t.Run("no subject", func(t *testing.T) {
		_, err := m.Parse(mustSign(t, m, &Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}))
		assert.Error(t, err)
	})
}

func TestCookieRoundTrip(t *testing.T) {
	m := testManager()
	token, expires, err := m.Issue(testUser)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	http.SetCookie(rec, m.Cookie(token, expires))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range rec.Result().Cookies() {
		assert.True(t, c.HttpOnly)
		assert.Equal(t, "/", c.Path)
		req.AddCookie(c)
	}

	claims, err := m.FromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID())

	_, err = m.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoSession)

	cleared := m.ClearCookie()
	assert.Equal(t, "lumi_session", cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func mustSign(t *testing.T, m *Manager, c *Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	require.NoError(t, err)
	return s
}
