package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type healthHandler struct {
	storeConfigured bool
}

func (h *healthHandler) Check(c echo.Context) error {
	store := "simulated"
	if h.storeConfigured {
		store = "configured"
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "lumi",
		"store":     store,
	})
}
