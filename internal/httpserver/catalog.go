package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) ListBrands(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brand.list")

	items, err := h.Svc.ListBrands(ctx, c.QueryParams())
	if err != nil {
		return fail(l, "list_brands", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) AdminListBrands(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.brand.list")

	items, err := h.Svc.AdminListBrands(ctx, c.QueryParams())
	if err != nil {
		return fail(l, "list_brands", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.brand.get")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	b, err := h.Svc.GetBrand(ctx, id)
	if err != nil {
		return fail(l, "get_brand", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *CatalogHTTP) CreateBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.brand.create")

	b, err := h.Svc.CreateBrand(ctx, decodeBody[transport.BrandRequest](c))
	if err != nil {
		return fail(l, "create_brand", err)
	}
	l.Info("create_brand_success", "brand_id", b.ID)
	return c.JSON(http.StatusCreated, b)
}

func (h *CatalogHTTP) UpdateBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.brand.update")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	b, err := h.Svc.UpdateBrand(ctx, id, decodeBody[transport.BrandRequest](c))
	if err != nil {
		return fail(l, "update_brand", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *CatalogHTTP) DeleteBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.brand.delete")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteBrand(ctx, id); err != nil {
		return fail(l, "delete_brand", err)
	}
	l.Info("delete_brand_success", "brand_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	items, err := h.Svc.ListCategories(ctx, c.QueryParams())
	if err != nil {
		return fail(l, "list_categories", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) AdminListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.category.list")

	items, err := h.Svc.AdminListCategories(ctx, c.QueryParams())
	if err != nil {
		return fail(l, "list_categories", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.category.get")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	cat, err := h.Svc.GetCategory(ctx, id)
	if err != nil {
		return fail(l, "get_category", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.category.create")

	cat, err := h.Svc.CreateCategory(ctx, decodeBody[transport.CategoryRequest](c))
	if err != nil {
		return fail(l, "create_category", err)
	}
	l.Info("create_category_success", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.category.update")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	cat, err := h.Svc.UpdateCategory(ctx, id, decodeBody[transport.CategoryRequest](c))
	if err != nil {
		return fail(l, "update_category", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.category.delete")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return fail(l, "delete_category", err)
	}
	l.Info("delete_category_success", "category_id", id)
	return c.NoContent(http.StatusNoContent)
}
