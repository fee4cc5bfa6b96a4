package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/minishop/internal/logging"
	"github.com/Skotchmaster/minishop/internal/service"
	"github.com/Skotchmaster/minishop/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	pid, err := paramID(c)
	if err != nil {
		l.Warn("cart_add_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return err
	}

	if _, err := h.Svc.Add(ctx, uid, pid); err != nil {
		l.Warn("cart_add_failed", "product_id", pid, "error", err)
		return err
	}

	l.Info("cart_add_success", "product_id", pid)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Item added to the cart successfully"})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	pid, err := paramID(c)
	if err != nil {
		l.Warn("cart_remove_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return err
	}

	if err := h.Svc.Remove(ctx, uid, pid); err != nil {
		l.Warn("cart_remove_failed", "product_id", pid, "error", err)
		return err
	}

	l.Info("cart_remove_success", "product_id", pid)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Item removed from the cart successfully"})
}

func (h *CartHTTP) ViewCart(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	prods, err := h.Svc.View(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prods)
}
