package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/minishop/internal/apperr"
	"github.com/Skotchmaster/minishop/internal/logging"
	"github.com/Skotchmaster/minishop/internal/service"
	"github.com/Skotchmaster/minishop/internal/transport"
)

const msgInvalidProduct = "Invalid product data"

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.add")

	var req transport.CreateProductRequest
	if err := bindStrict(c, &req, msgInvalidProduct); err != nil {
		l.Warn("product_add_failed", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	prod, err := h.Svc.Add(ctx, req)
	if err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			l.Warn("product_add_failed", "status", 400, "error", err)
		}
		return err
	}

	l.Info("product_add_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product added successfully"})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := paramID(c)
	if err != nil {
		l.Warn("product_get_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return err
	}

	prod, err := h.Svc.Get(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			l.Warn("product_get_failed", "status", 404, "product_id", id)
		}
		return err
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	items, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := paramID(c)
	if err != nil {
		l.Warn("product_update_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return err
	}

	var req transport.UpdateProductRequest
	if err := bindStrict(c, &req, msgInvalidProduct); err != nil {
		l.Warn("product_update_failed", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	if _, err := h.Svc.Update(ctx, id, req); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			l.Warn("product_update_failed", "status", 404, "product_id", id)
		}
		return err
	}

	l.Info("product_update_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product updated successfully"})
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := paramID(c)
	if err != nil {
		l.Warn("product_delete_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return err
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			l.Warn("product_delete_failed", "status", 404, "product_id", id)
		}
		return err
	}

	l.Info("product_delete_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product deleted successfully"})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.Svc.Search(ctx, c.QueryParam("q"))
	if err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			logging.FromContext(ctx).Warn("product_search_failed", "handler", "product.search", "status", 400, "error", err)
		}
		return err
	}
	return c.JSON(http.StatusOK, items)
}
