package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/lumi/adapters/session"
	"github.com/satriahrh/lumi/usecase"
	"github.com/satriahrh/lumi/utils/log"
)

const maxBodySize = "1MB"

type Deps struct {
	Chat      *usecase.ChatService
	Workspace *usecase.WorkspaceService
	Auth      *usecase.AuthService
	Sessions  *session.Manager
}

// NewRouter wires every route behind the shared middleware chain.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler
	e.Renderer = newPageRenderer()

	e.Use(middleware.RequestID())
	e.Use(requestContext)
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool { return c.Path() == "/health" },
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
		},
		MaxAge: 86400,
	}))
	e.Use(middleware.BodyLimit(maxBodySize))
	e.Use(accessGate(d.Sessions))

	health := &healthHandler{storeConfigured: d.Workspace.Configured()}
	e.GET("/health", health.Check)

	pages := &pageHandler{}
	e.GET("/", pages.Home)
	e.GET(loginPath, pages.Login)
	e.GET(dashboardPath, pages.Dashboard)

	auth := &authHandler{auth: d.Auth, sessions: d.Sessions}
	e.POST(loginPath, auth.Login)
	e.POST(loginPath+"/signup", auth.Signup)
	e.POST("/logout", auth.Logout)

	api := e.Group("/api")

	chat := &chatHandler{chat: d.Chat}
	api.POST("/chat", chat.Complete)

	ws := &workspaceHandler{ws: d.Workspace}
	api.GET("/stats", ws.Stats)
	api.GET("/tasks", ws.ListTasks)
	api.POST("/tasks", ws.CreateTask)
	api.PATCH("/tasks/:id/status", ws.UpdateTaskStatus)
	api.GET("/goals", ws.ListGoals)
	api.POST("/goals", ws.CreateGoal)
	api.PATCH("/goals/:id/status", ws.UpdateGoalStatus)
	api.GET("/contents", ws.ListContents)
	api.POST("/contents", ws.CreateContent)
	api.POST("/conversations", ws.CreateConversation)
	api.GET("/conversations/:id/messages", ws.ListMessages)
	api.POST("/conversations/:id/messages", ws.SaveMessage)

	return e
}

// requestContext copies the request id echo generated into the request
// context so usecase logs carry it.
func requestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		if id != "" {
			req := c.Request()
			c.SetRequest(req.WithContext(log.WithRequestID(req.Context(), id)))
		}
		return next(c)
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// errorHandler answers every failure as JSON.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := errorBody{Error: "Erro interno do servidor"}

	var gerr *usecase.GatewayError
	var herr *echo.HTTPError
	switch {
	case errors.As(err, &gerr):
		status = gerr.Status
		body = errorBody{Error: gerr.Title, Message: gerr.Message}
	case errors.As(err, &herr):
		status = herr.Code
		if msg, ok := herr.Message.(string); ok {
			body.Error = msg
		} else {
			body.Error = http.StatusText(status)
		}
	default:
		log.WithCtx(c.Request().Context()).Error("unhandled request error", zap.Error(err))
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		log.WithCtx(c.Request().Context()).Error("failed to write error response", zap.Error(werr))
	}
}
