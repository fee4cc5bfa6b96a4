package httpserver

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/minishop/internal/apperr"
	"github.com/Skotchmaster/minishop/internal/logging"
	"github.com/Skotchmaster/minishop/internal/service"
)

const (
	ctxUserID       = "user_id"
	ctxSessionToken = "session_token"
)

// RequireAuth rejects the request with 401 unless its cookie names a live session.
func RequireAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("middleware", "require_auth")

			ck, err := c.Cookie(auth.Sessions.CookieName())
			if err != nil || ck.Value == "" {
				l.Warn("auth_failed", "status", 401, "reason", "no session cookie")
				return apperr.Unauthorized("unauthorized")
			}

			userID, err := auth.Authenticate(ctx, ck.Value)
			if err != nil {
				if apperr.Is(err, apperr.KindUnauthorized) {
					l.Warn("auth_failed", "status", 401, "reason", "invalid session", "error", err)
				}
				return err
			}

			c.Set(ctxUserID, userID)
			c.Set(ctxSessionToken, ck.Value)

			req := c.Request().WithContext(logging.IntoContext(ctx, logging.FromContext(ctx).With("user_id", userID)))
			c.SetRequest(req)
			return next(c)
		}
	}
}

func userID(c echo.Context) (uint, error) {
	id, ok := c.Get(ctxUserID).(uint)
	if !ok {
		return 0, apperr.Unauthorized("unauthorized")
	}
	return id, nil
}

// RequestLogger puts a request-scoped logger into the context and logs the
// outcome of every request. Errors are rendered here so the logged status is final.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Request().Header.Get(echo.HeaderXRequestID)
			}

			l := base.With(
				"method", c.Request().Method,
				"path", c.Path(),
				"url", c.Request().URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
			}
			c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			dur := time.Since(start)
			status := c.Response().Status

			switch {
			case status >= 500:
				l.Error("request completed", "status", status, "duration_ms", dur.Milliseconds(), "error", errStr(err))
			case status >= 400:
				l.Warn("request completed", "status", status, "duration_ms", dur.Milliseconds(), "error", errStr(err))
			default:
				l.Info("request completed", "status", status, "duration_ms", dur.Milliseconds(), "bytes", c.Response().Size)
			}
			return nil
		}
	}
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v", err)
}
