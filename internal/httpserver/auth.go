package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/minishop/internal/apperr"
	"github.com/Skotchmaster/minishop/internal/logging"
	"github.com/Skotchmaster/minishop/internal/service"
	"github.com/Skotchmaster/minishop/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func credentials(c echo.Context) (string, string, error) {
	var req transport.Credentials
	if err := bindStrict(c, &req, "invalid body"); err != nil {
		return "", "", err
	}
	if req.Username == nil || req.Password == nil {
		return "", "", apperr.Validation("username and password are required")
	}
	return *req.Username, *req.Password, nil
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	username, password, err := credentials(c)
	if err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	user, err := h.Svc.Register(ctx, username, password)
	if err != nil {
		return err
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, transport.UserResponse{ID: user.ID, Username: user.Username})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	username, password, err := credentials(c)
	if err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	user, issued, err := h.Svc.Login(ctx, username, password)
	if err != nil {
		return err
	}

	c.SetCookie(h.Svc.Sessions.Cookie(issued.Token, issued.ExpiresAt))

	l.Info("login_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Logged in successfully"})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	token, _ := c.Get(ctxSessionToken).(string)
	if err := h.Svc.Logout(ctx, token); err != nil {
		l.Warn("logout_failed", "error", err)
		return err
	}

	c.SetCookie(h.Svc.Sessions.ExpiredCookie())

	l.Info("logout_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Logged out successfully"})
}
