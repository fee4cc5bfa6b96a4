package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/minishop/internal/db"
	"github.com/Skotchmaster/minishop/internal/logging"
)

type Deps struct {
	DB          *gorm.DB
	AuthHandler *AuthHTTP
	Catalog     *CatalogHTTP
	Cart        *CartHTTP
}

// NewEcho returns an echo instance with the shared middleware chain and error
// rendering installed. Routes are added by Register.
func NewEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(RequestLogger(logger))
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	requireAuth := RequireAuth(d.AuthHandler.Svc)

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/logout", d.AuthHandler.Logout, requireAuth)

	api := e.Group("/api", requireAuth)

	products := api.Group("/products")
	products.GET("", d.Catalog.ListProducts)
	products.POST("/add", d.Catalog.AddProduct)
	products.GET("/search", d.Catalog.SearchProducts)
	products.GET("/:id", d.Catalog.GetProduct)
	products.PUT("/:id", d.Catalog.UpdateProduct)
	products.DELETE("/delete/:id", d.Catalog.DeleteProduct)

	cart := api.Group("/cart")
	cart.GET("", d.Cart.ViewCart)
	cart.POST("/add/:id", d.Cart.AddToCart)
	cart.DELETE("/remove/:id", d.Cart.RemoveFromCart)
}

func (d *Deps) ready(c echo.Context) error {
	ctx := c.Request().Context()
	if d.DB == nil {
		return c.NoContent(http.StatusOK)
	}
	if err := db.Ping(ctx, d.DB); err != nil {
		logging.FromContext(ctx).Warn("ready_check_failed", "status", 503, "error", err)
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
