package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/middleware/auth"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

type Deps struct {
	Catalog   *CatalogHTTP
	Products  *ProductHTTP
	Accounts  *AccountHTTP
	Customers *CustomerHTTP
	Staff     *StaffHTTP

	Authn   auth.Authenticator
	Ready   Pinger
	Metrics *metrics.Metrics
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	api := e.Group("/api/v1")

	api.GET("/brands", d.Catalog.ListBrands)
	api.GET("/categories", d.Catalog.ListCategories)

	products := api.Group("/products")
	products.GET("", d.Products.ListProducts)
	products.GET("/search", d.Products.SearchProducts)
	products.GET("/:id", d.Products.GetProduct)

	customers := api.Group("/customers")
	customers.POST("/register", d.Accounts.Register)
	customers.GET("/confirm", d.Accounts.Confirm)
	customers.POST("/resend-confirmation", d.Accounts.ResendConfirmation)
	customers.POST("/login", d.Accounts.Login)
	customers.GET("/me", d.Accounts.Me, auth.RequireCustomer(d.Authn))
	customers.POST("/logout", d.Accounts.Logout)
	customers.POST("/password/reset", d.Accounts.RequestPasswordReset)
	customers.POST("/password/reset/confirm", d.Accounts.ConfirmPasswordReset)

	admin := api.Group("/admin")
	crud(admin.Group("/brands"), d.Catalog.AdminListBrands, d.Catalog.CreateBrand, d.Catalog.GetBrand, d.Catalog.UpdateBrand, d.Catalog.DeleteBrand)
	crud(admin.Group("/categories"), d.Catalog.AdminListCategories, d.Catalog.CreateCategory, d.Catalog.GetCategory, d.Catalog.UpdateCategory, d.Catalog.DeleteCategory)
	crud(admin.Group("/products"), d.Products.ListProducts, d.Products.CreateProduct, d.Products.AdminGetProduct, d.Products.UpdateProduct, d.Products.DeleteProduct)
	crud(admin.Group("/customers"), d.Customers.List, d.Customers.Create, d.Customers.Get, d.Customers.Update, d.Customers.Delete)
	crud(admin.Group("/staff"), d.Staff.List, d.Staff.Create, d.Staff.Get, d.Staff.Update, d.Staff.Delete)
}

// crud mounts the list/create/detail routes of one admin resource. PUT and
// PATCH both apply a partial update.
func crud(g *echo.Group, list, create, get, update, del echo.HandlerFunc) {
	g.GET("", list)
	g.POST("", create)
	g.GET("/:id", get)
	g.PUT("/:id", update)
	g.PATCH("/:id", update)
	g.DELETE("/:id", del)
}
