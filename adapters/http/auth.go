package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/lumi/adapters/session"
	"github.com/satriahrh/lumi/domain"
	"github.com/satriahrh/lumi/usecase"
	"github.com/satriahrh/lumi/utils/log"
)

type authHandler struct {
	auth     *usecase.AuthService
	sessions *session.Manager
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type signupRequest struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

type userBody struct {
	User *domain.User `json:"user"`
}

func authError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Credenciais inválidas")
	case errors.Is(err, usecase.ErrPasswordMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, "As senhas não coincidem.")
	case errors.Is(err, usecase.ErrPasswordTooShort):
		return echo.NewHTTPError(http.StatusBadRequest, "A senha deve ter pelo menos 6 caracteres.")
	case errors.Is(err, usecase.ErrInvalidEmail):
		return echo.NewHTTPError(http.StatusBadRequest, "E-mail inválido")
	case errors.Is(err, usecase.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, "Este e-mail já está cadastrado")
	case errors.Is(err, usecase.ErrAuthUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Serviço de autenticação indisponível")
	}
	return err
}

func (h *authHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return authError(err)
	}
	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userBody{User: user})
}

func (h *authHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := h.auth.Signup(c.Request().Context(), usecase.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return authError(err)
	}
	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userBody{User: user})
}

func (h *authHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.ClearCookie())
	return c.Redirect(http.StatusSeeOther, loginPath)
}

func (h *authHandler) startSession(c echo.Context, user *domain.User) error {
	token, expires, err := h.sessions.Issue(user)
	if err != nil {
		log.WithCtx(c.Request().Context()).Error("failed to issue session", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Não foi possível iniciar a sessão")
	}
	c.SetCookie(h.sessions.Cookie(token, expires))
	log.WithCtx(c.Request().Context()).Info("session started", zap.String("session_user", user.ID))
	return nil
}
