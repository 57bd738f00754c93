package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/satriahrh/lumi/domain"
	"github.com/satriahrh/lumi/usecase"
)

type workspaceHandler struct {
	ws *usecase.WorkspaceService
}

type dataBody struct {
	Data any `json:"data"`
}

// userID is the session subject; without a session the usecase falls back
// to the default user.
func userID(c echo.Context) string {
	if claims, ok := sessionClaims(c); ok {
		return claims.UserID()
	}
	return ""
}

func badRequest(err error) error {
	var msg string
	switch {
	case errors.Is(err, usecase.ErrInvalidPillar):
		msg = "Pilar inválido"
	case errors.Is(err, usecase.ErrInvalidStatus):
		msg = "Status inválido"
	case errors.Is(err, usecase.ErrInvalidPriority):
		msg = "Prioridade inválida"
	case errors.Is(err, usecase.ErrInvalidRole):
		msg = "Papel de mensagem inválido"
	case errors.Is(err, usecase.ErrTitleRequired):
		msg = "Título é obrigatório"
	case errors.Is(err, usecase.ErrContentRequired):
		msg = "Conteúdo é obrigatório"
	default:
		return err
	}
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

func bindJSON(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Corpo da requisição inválido")
	}
	return nil
}

func (h *workspaceHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ws.GetStats(c.Request().Context(), userID(c)))
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Pillar      string     `json:"pillar"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	GoalID      *string    `json:"goal_id"`
}

func (h *workspaceHandler) CreateTask(c echo.Context) error {
	var req createTaskRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	task, err := h.ws.CreateTask(c.Request().Context(), usecase.CreateTaskInput{
		UserID:      userID(c),
		Title:       req.Title,
		Description: req.Description,
		Pillar:      domain.Pillar(req.Pillar),
		Priority:    domain.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		GoalID:      req.GoalID,
	})
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(http.StatusCreated, dataBody{Data: task})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *workspaceHandler) UpdateTaskStatus(c echo.Context) error {
	var req statusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	task, err := h.ws.UpdateTaskStatus(c.Request().Context(), userID(c), c.Param("id"), domain.TaskStatus(req.Status))
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(http.StatusOK, dataBody{Data: task})
}

func (h *workspaceHandler) ListTasks(c echo.Context) error {
	tasks, err := h.ws.GetTasks(c.Request().Context(), domain.TaskFilter{
		UserID: userID(c),
		Status: domain.TaskStatus(c.QueryParam("status")),
		Pillar: domain.Pillar(c.QueryParam("pillar")),
	})
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(http.StatusOK, dataBody{Data: tasks})
}

type createGoalRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Pillar      string     `json:"pillar"`
	TargetDate  *time.Time `json:"target_date"`
}

func (h *workspaceHandler) CreateGoal(c echo.Context) error {
	var req createGoalRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	goal, err := h.ws.CreateGoal(c.Request().Context(), usecase.CreateGoalInput{
		UserID:      userID(c),
		Title:       req.Title,
		Description: req.Description,
		Pillar:      domain.Pillar(req.Pillar),
		TargetDate:  req.TargetDate,
	})
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(http.StatusCreated, dataBody{Data: goal})
}

func (h *workspaceHandler) UpdateGoalStatus(c echo.Context) error {
	var req statusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	goal, err := h.ws.UpdateGoalStatus(c.Request().Context(), userID(c), c.Param("id"), domain.GoalStatus(req.Status))
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(http.StatusOK, dataBody{Data: goal})
}

func (h *workspaceHandler) ListGoals(c echo.Context) error {
	goals, err := h.ws.GetGoals(c.Request().Context(), domain.GoalFilter{
		UserID: userID(c),
		Status: domain.GoalStatus(c.QueryParam("status")),
		Pillar: domain.Pillar(c.QueryParam("pillar")),
	})
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(http.StatusOK, dataBody{Data: goals})
}

type createContentRequest struct {
	Pillar   string         `json:"pillar"`
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

func (h *workspaceHandler) CreateContent(c echo.Context) error {
	var req createContentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	content, err := h.ws.SaveContent(c.Request().Context(), usecase.SaveContentInput{
		UserID:   userID(c),
		Pillar:   domain.Pillar(req.Pillar),
		Type:     req.Type,
		Title:    req.Title,
		Content:  req.Content,
		Metadata: req.Metadata,
	})
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(http.StatusCreated, dataBody{Data: content})
}

func (h *workspaceHandler) ListContents(c echo.Context) error {
	contents, err := h.ws.GetContents(c.Request().Context(), domain.ContentFilter{
		UserID: userID(c),
		Pillar: domain.Pillar(c.QueryParam("pillar")),
		Type:   c.QueryParam("type"),
	})
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(http.StatusOK, dataBody{Data: contents})
}

type createConversationRequest struct {
	Pillar string `json:"pillar"`
	Title  string `json:"title"`
}

func (h *workspaceHandler) CreateConversation(c echo.Context) error {
	var req createConversationRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	conv, err := h.ws.CreateConversation(c.Request().Context(), usecase.CreateConversationInput{
		UserID: userID(c),
		Pillar: domain.Pillar(req.Pillar),
		Title:  req.Title,
	})
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(http.StatusCreated, dataBody{Data: conv})
}

type saveMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (h *workspaceHandler) SaveMessage(c echo.Context) error {
	var req saveMessageRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	msg, err := h.ws.SaveMessage(c.Request().Context(), userID(c), c.Param("id"), domain.Role(req.Role), req.Content)
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(http.StatusCreated, dataBody{Data: msg})
}

func (h *workspaceHandler) ListMessages(c echo.Context) error {
	return c.JSON(http.StatusOK, dataBody{Data: h.ws.GetMessages(c.Request().Context(), userID(c), c.Param("id"))})
}
