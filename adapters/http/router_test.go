package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/satriahrh/lumi/adapters/session"
	"github.com/satriahrh/lumi/adapters/storage"
	"github.com/satriahrh/lumi/config"
	"github.com/satriahrh/lumi/domain"
	"github.com/satriahrh/lumi/usecase"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeCompleter struct {
	calls int
	resp  domain.Completion
	err   error
}

func (f *fakeCompleter) Complete(context.Context, domain.CompletionRequest) (domain.Completion, error) {
	f.calls++
	return f.resp, f.err
}

type testServer struct {
	e        *echo.Echo
	llm      *fakeCompleter
	sessions *session.Manager
}

func newTestServer(t *testing.T, hasCredential bool) *testServer {
	t.Helper()
	return newServerWithStore(t, hasCredential, nil)
}

// newStoredServer backs the workspace and auth with an in-memory sqlite store.
func newStoredServer(t *testing.T) *testServer {
	t.Helper()
	db, err := storage.Open(config.StoreConfig{Driver: "sqlite", URL: ":memory:"})
	require.NoError(t, err)
	store := storage.NewStore(db)
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })
	return newServerWithStore(t, true, store)
}

func newServerWithStore(t *testing.T, hasCredential bool, store domain.Store) *testServer {
	t.Helper()
	llm := &fakeCompleter{resp: domain.Completion{Text: "Olá!", Usage: domain.Usage{TotalTokens: 7}}}
	sessions := session.NewManager(config.SessionConfig{Secret: "test", TTL: time.Hour, CookieName: "lumi_session"})
	configured := store != nil
	e := NewRouter(Deps{
		Chat:      usecase.NewChatService(llm, usecase.NewPromptTable(""), hasCredential),
		Workspace: usecase.NewWorkspaceService(store, configured),
		Auth:      usecase.NewAuthService(store, configured),
		Sessions:  sessions,
	})
	return &testServer{e: e, llm: llm, sessions: sessions}
}

// do sends a request; a non-nil user makes it authenticated.
func (s *testServer) do(t *testing.T, method, target, body string, user *domain.User) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if user != nil {
		token, expires, err := s.sessions.Issue(user)
		require.NoError(t, err)
		req.AddCookie(s.sessions.Cookie(token, expires))
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func newRawRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

func serve(s *testServer, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

var (
	ana = &domain.User{ID: "11111111-1111-1111-1111-111111111111", Name: "Ana", Email: "ana@lumi.com"}
	bob = &domain.User{ID: "22222222-2222-2222-2222-222222222222", Name: "Bob", Email: "bob@lumi.com"}
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, true)
	rec := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "lumi", body["service"])
	assert.Equal(t, "simulated", body["store"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestPages(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sou a Lumi")
	assert.Contains(t, rec.Body.String(), `value="produtividade"`)

	rec = s.do(t, http.MethodGet, "/login", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Criar conta")

	rec = s.do(t, http.MethodGet, "/dashboard", "", ana)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Horas economizadas")
	assert.Contains(t, rec.Body.String(), "Sair")
}

func TestErrorHandlerAnswersJSON(t *testing.T) {
	s := newTestServer(t, true)
	rec := s.do(t, http.MethodGet, "/api/nothing-here", "", ana)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
	assert.NotEmpty(t, decode(t, rec)["error"])
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, true)
	rec := s.do(t, http.MethodGet, "/health", "", nil)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}
