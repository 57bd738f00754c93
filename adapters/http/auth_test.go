package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *testServer) sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == s.sessions.CookieName() {
			return c
		}
	}
	return nil
}

func TestLoginSetsSession(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodPost, "/login", `{"email":"ana@lumi.com","password":"segredo"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cookie := s.sessionCookie(t, rec.Result())
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	claims, err := s.sessions.Parse(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", claims.UserID())

	req := newRawRequest(http.MethodGet, "/dashboard")
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusOK, serve(s, req).Code)
}

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	s := newTestServer(t, true)
	rec := s.do(t, http.MethodPost, "/login", `{"email":"","password":""}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Credenciais inválidas", decode(t, rec)["error"])
	assert.Nil(t, s.sessionCookie(t, rec.Result()))
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"mismatch", `{"email":"ana@lumi.com","password":"segredo","confirmPassword":"segredo2"}`, http.StatusBadRequest, "As senhas não coincidem."},
		{"too short", `{"email":"ana@lumi.com","password":"abc","confirmPassword":"abc"}`, http.StatusBadRequest, "A senha deve ter pelo menos 6 caracteres."},
		{"bad email", `{"email":"ana","password":"segredo","confirmPassword":"segredo"}`, http.StatusBadRequest, "E-mail inválido"},
		{"ok", `{"name":"Ana","email":"ana@lumi.com","password":"segredo","confirmPassword":"segredo"}`, http.StatusCreated, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, true)
			rec := s.do(t, http.MethodPost, "/login/signup", tt.body, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decode(t, rec)["error"])
				return
			}
			user := decode(t, rec)["user"].(map[string]any)
			assert.Equal(t, "Ana", user["name"])
			assert.NotNil(t, s.sessionCookie(t, rec.Result()))
		})
	}
}

func TestLogout(t *testing.T) {
	s := newTestServer(t, true)
	rec := s.do(t, http.MethodPost, "/logout", "", ana)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	cookie := s.sessionCookie(t, rec.Result())
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}
