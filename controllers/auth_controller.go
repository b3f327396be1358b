package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/auth"

	"github.com/labstack/echo/v4"
)

type LoginParams struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type AuthController struct {
	log   *slog.Logger
	login *auth.LoginStaffUC
}

func NewAuthController(log *slog.Logger, login *auth.LoginStaffUC) *AuthController {
	return &AuthController{
		log:   log,
		login: login,
	}
}

// LoginHandler handles POST /login for the staff account.
func (ac *AuthController) LoginHandler(c echo.Context) error {
	params := new(LoginParams)
	if err := c.Bind(params); err != nil {
		ac.log.Warn(fmt.Sprintf("[auth] Login attempt failed: Invalid request binding: %v", err))
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid login request"})
	}

	token, role, err := ac.login.Invoke(params.Username, params.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAuthDisabled) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Staff login is not enabled"})
		}
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Login failed"})
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token, Role: role})
}

// HealthController answers GET /healthz.
func HealthController(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
