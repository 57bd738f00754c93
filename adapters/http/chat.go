package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/satriahrh/lumi/domain"
	"github.com/satriahrh/lumi/usecase"
)

type chatHandler struct {
	chat *usecase.ChatService
}

// chatRequest keeps both fields raw: a non-array messages value is a client
// error, a non-string pillar is ignored. userId is sent by the UI but unused.
type chatRequest struct {
	Messages json.RawMessage `json:"messages"`
	Pillar   json.RawMessage `json:"pillar"`
}

func (h *chatHandler) Complete(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return usecase.ErrInvalidInput()
	}

	in := usecase.ChatInput{}
	raw := bytes.TrimSpace(req.Messages)
	if len(raw) == 0 || raw[0] != '[' {
		return usecase.ErrInvalidInput()
	}
	if err := json.Unmarshal(raw, &in.Messages); err != nil {
		return usecase.ErrInvalidInput()
	}
	if in.Messages == nil {
		in.Messages = []domain.ChatMessage{}
	}

	var pillar string
	if err := json.Unmarshal(req.Pillar, &pillar); err == nil {
		in.Pillar = pillar
	}

	out, err := h.chat.Complete(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
