package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satriahrh/lumi/domain"
)

func TestInterpretResponse(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        chatReply
	}{
		{"ok", 200, "application/json; charset=UTF-8", `{"message":"Olá!","pillar":"geral"}`, chatReply{message: "Olá!"}},
		{"ok but html", 200, "text/html", `<html></html>`, chatReply{err: "A API retornou uma resposta inválida (não é JSON). Verifique os logs do servidor."}},
		{"json error prefers message", 401, "application/json", `{"error":"API Key inválida","message":"Verifique sua chave"}`, chatReply{err: "Verifique sua chave"}},
		{"json error without message", 400, "application/json", `{"error":"Mensagens inválidas"}`, chatReply{err: "Mensagens inválidas"}},
		{"broken json error", 500, "application/json", `{`, chatReply{err: "Erro ao processar mensagem"}},
		{"html 500", 500, "text/html", `<h1>oops</h1>`, chatReply{err: "Erro no servidor. Verifique se a variável GEMINI_API_KEY está configurada corretamente."}},
		{"html 404", 404, "text/plain", `not found`, chatReply{err: "Rota da API não encontrada. Verifique se /api/chat existe."}},
		{"html 502", 502, "text/html", `bad gateway`, chatReply{err: "Erro 502: O servidor retornou uma resposta inválida."}},
		{"redirect to login", 307, "", ``, chatReply{err: "Sessão ausente ou expirada. Use --email e --password para entrar."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, interpretResponse(tt.status, tt.contentType, []byte(tt.body)))
		})
	}
}

func TestChatClientKeepsHistory(t *testing.T) {
	var got []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			http.SetCookie(w, &http.Cookie{Name: "lumi_session", Value: "tok", Path: "/"})
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"user":{"id":"u"}}`))
		case "/api/chat":
			if c, err := r.Cookie("lumi_session"); err != nil || c.Value != "tok" {
				http.Redirect(w, r, "/login", http.StatusTemporaryRedirect)
				return
			}
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			got = append(got, body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"message":"resposta","pillar":"geral","usage":{}}`))
		}
	}))
	defer srv.Close()

	client, err := newChatClient(srv.URL+"/", "estudo")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = client.send(ctx, "antes do login")
	assert.ErrorContains(t, err, "Sessão ausente")
	assert.Empty(t, client.history, "failed sends leave history untouched")

	require.NoError(t, client.login(ctx, "ana@lumi.com", "segredo"))

	reply, err := client.send(ctx, "primeira")
	require.NoError(t, err)
	assert.Equal(t, "resposta", reply)

	_, err = client.send(ctx, "segunda")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "estudo", got[1]["pillar"])
	assert.Len(t, got[1]["messages"], 3)
	assert.Equal(t, []domain.ChatMessage{
		{Role: domain.UserRole, Content: "primeira"},
		{Role: domain.AssistantRole, Content: "resposta"},
		{Role: domain.UserRole, Content: "segunda"},
		{Role: domain.AssistantRole, Content: "resposta"},
	}, client.history)
}

func TestPromptLabel(t *testing.T) {
	assert.Equal(t, "geral", promptLabel(""))
	assert.Equal(t, "vida", promptLabel("vida"))
}
