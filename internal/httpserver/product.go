package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

func (h *ProductHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page, err := h.Svc.ListProducts(ctx, c.QueryParams())
	if err != nil {
		return fail(l, "list_products", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	res, err := h.Svc.SearchProducts(ctx, c.QueryParams())
	if err != nil {
		return fail(l, "search_products", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	row, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product", err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *ProductHTTP) AdminGetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.product.get")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := h.Svc.AdminGetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.product.create")

	row, err := h.Svc.CreateProduct(ctx, decodeBody[transport.ProductRequest](c))
	if err != nil {
		return fail(l, "create_product", err)
	}
	l.Info("create_product_success", "product_id", row.ProductID)
	return c.JSON(http.StatusCreated, row)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.product.update")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	row, err := h.Svc.UpdateProduct(ctx, id, decodeBody[transport.ProductRequest](c))
	if err != nil {
		return fail(l, "update_product", err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.product.delete")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(l, "delete_product", err)
	}
	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
