package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/satriahrh/lumi/domain"
)

const chatRequestTimeout = 2 * time.Minute

var (
	chatServer   string
	chatPillar   string
	chatEmail    string
	chatPassword string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to a running Lumi server from the terminal",
	Long: `Opens a conversation with a running Lumi server.

Commands inside the chat:
  /pilar <id>  switch persona (conteudo, produtividade, estudo, negocios, vida, or empty for general)
  /limpar      clear the conversation
  sair         quit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatServer, "server", "http://localhost:8080", "Lumi server URL")
	chatCmd.Flags().StringVar(&chatPillar, "pillar", "", "initial persona")
	chatCmd.Flags().StringVar(&chatEmail, "email", os.Getenv("LUMI_EMAIL"), "login e-mail")
	chatCmd.Flags().StringVar(&chatPassword, "password", os.Getenv("LUMI_PASSWORD"), "login password")
}

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// chatClient keeps the conversation locally; the server is stateless.
type chatClient struct {
	server  string
	client  *http.Client
	pillar  string
	history []domain.ChatMessage
}

func newChatClient(server, pillar string) (*chatClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &chatClient{
		server: strings.TrimRight(server, "/"),
		pillar: pillar,
		client: &http.Client{
			Jar:     jar,
			Timeout: chatRequestTimeout,
			// a redirect means the access gate sent us to /login
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

func (c *chatClient) login(ctx context.Context, email, password string) error {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.server+"/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("não foi possível conectar ao servidor: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return errors.New(interpretResponse(resp.StatusCode, resp.Header.Get("Content-Type"), raw).err)
	}
	return nil
}

// send posts the history plus text. On failure the history is unchanged so
// the message can be retried.
func (c *chatClient) send(ctx context.Context, text string) (string, error) {
	messages := append(c.history[:len(c.history):len(c.history)], domain.ChatMessage{Role: domain.UserRole, Content: text})

	payload := map[string]any{"messages": messages}
	if c.pillar != "" {
		payload["pillar"] = c.pillar
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.server+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("não foi possível conectar ao servidor: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	out := interpretResponse(resp.StatusCode, resp.Header.Get("Content-Type"), raw)
	if out.err != "" {
		return "", errors.New(out.err)
	}
	c.history = append(messages, domain.ChatMessage{Role: domain.AssistantRole, Content: out.message})
	return out.message, nil
}

type chatReply struct {
	message string
	err     string
}

// interpretResponse never trusts the server to answer JSON. Non-JSON bodies
// and unexpected statuses become a readable message.
func interpretResponse(status int, contentType string, body []byte) chatReply {
	isJSON := strings.Contains(contentType, "application/json")

	if status >= 300 && status < 400 {
		return chatReply{err: "Sessão ausente ou expirada. Use --email e --password para entrar."}
	}

	if status < 200 || status >= 300 {
		if isJSON {
			var e struct {
				Error   string `json:"error"`
				Message string `json:"message"`
			}
			if json.Unmarshal(body, &e) == nil {
				if e.Message != "" {
					return chatReply{err: e.Message}
				}
				if e.Error != "" {
					return chatReply{err: e.Error}
				}
			}
			return chatReply{err: "Erro ao processar mensagem"}
		}
		switch status {
		case http.StatusInternalServerError:
			return chatReply{err: "Erro no servidor. Verifique se a variável GEMINI_API_KEY está configurada corretamente."}
		case http.StatusNotFound:
			return chatReply{err: "Rota da API não encontrada. Verifique se /api/chat existe."}
		}
		return chatReply{err: fmt.Sprintf("Erro %d: O servidor retornou uma resposta inválida.", status)}
	}

	if !isJSON {
		return chatReply{err: "A API retornou uma resposta inválida (não é JSON). Verifique os logs do servidor."}
	}
	var ok struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &ok); err != nil || ok.Message == "" {
		return chatReply{err: "A API retornou uma resposta inválida (não é JSON). Verifique os logs do servidor."}
	}
	return chatReply{message: ok.Message}
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatPillar != "" {
		if _, ok := domain.ParsePillar(chatPillar); !ok {
			return fmt.Errorf("unknown pillar %q", chatPillar)
		}
	}

	ctx := cmd.Context()
	client, err := newChatClient(chatServer, chatPillar)
	if err != nil {
		return err
	}
	if chatEmail != "" {
		if err := client.login(ctx, chatEmail, chatPassword); err != nil {
			return err
		}
	}

	renderer := newMarkdownRenderer()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, mutedStyle.Render("Conectado a "+client.server+". Digite 'sair' para encerrar."))
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, promptStyle.Render(promptLabel(client.pillar)+" > "))
		if !scanner.Scan() {
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())

		switch {
		case text == "":
			continue
		case text == "sair":
			return nil
		case text == "/limpar":
			client.history = nil
			fmt.Fprintln(out, mutedStyle.Render("Conversa limpa."))
			continue
		case strings.HasPrefix(text, "/pilar"):
			p := strings.TrimSpace(strings.TrimPrefix(text, "/pilar"))
			if p != "" {
				if _, ok := domain.ParsePillar(p); !ok {
					fmt.Fprintln(out, errorStyle.Render("Pilar desconhecido: "+p))
					continue
				}
			}
			client.pillar = p
			fmt.Fprintln(out, mutedStyle.Render("Pilar: "+promptLabel(p)))
			continue
		}

		reply, err := client.send(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintln(out, errorStyle.Render(err.Error()))
			continue
		}
		fmt.Fprintln(out, render(renderer, reply))
	}
}

func promptLabel(pillar string) string {
	if pillar == "" {
		return domain.GeneralPillar
	}
	return pillar
}

// newMarkdownRenderer falls back to plain text when glamour cannot start;
// its auto style already degrades to no colour off a terminal.
func newMarkdownRenderer() *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil
	}
	return r
}

func render(r *glamour.TermRenderer, markdown string) string {
	if r == nil {
		return markdown
	}
	s, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(s, "\n")
}
