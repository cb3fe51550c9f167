package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CustomerHTTP struct {
	Svc *service.CustomerService
}

func (h *CustomerHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.customer.list")

	page, err := h.Svc.ListCustomers(ctx, c.QueryParams())
	if err != nil {
		return fail(l, "list_customers", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CustomerHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.customer.get")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	cust, err := h.Svc.GetCustomer(ctx, id)
	if err != nil {
		return fail(l, "get_customer", err)
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.customer.create")

	cust, err := h.Svc.CreateCustomer(ctx, decodeBody[transport.CustomerRequest](c))
	if err != nil {
		return fail(l, "create_customer", err)
	}
	l.Info("create_customer_success", "customer_id", cust.ID)
	return c.JSON(http.StatusCreated, cust)
}

func (h *CustomerHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.customer.update")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	cust, err := h.Svc.UpdateCustomer(ctx, id, decodeBody[transport.CustomerRequest](c))
	if err != nil {
		return fail(l, "update_customer", err)
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.customer.delete")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteCustomer(ctx, id); err != nil {
		return fail(l, "delete_customer", err)
	}
	l.Info("delete_customer_success", "customer_id", id)
	return c.NoContent(http.StatusNoContent)
}

type StaffHTTP struct {
	Svc *service.StaffService
}

func (h *StaffHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.staff.list")

	page, err := h.Svc.ListStaff(ctx, c.QueryParams())
	if err != nil {
		return fail(l, "list_staff", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *StaffHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.staff.get")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	s, err := h.Svc.GetStaff(ctx, id)
	if err != nil {
		return fail(l, "get_staff", err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *StaffHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.staff.create")

	s, err := h.Svc.CreateStaff(ctx, decodeBody[transport.StaffRequest](c))
	if err != nil {
		return fail(l, "create_staff", err)
	}
	l.Info("create_staff_success", "staff_id", s.ID)
	return c.JSON(http.StatusCreated, s)
}

func (h *StaffHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.staff.update")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	s, err := h.Svc.UpdateStaff(ctx, id, decodeBody[transport.StaffRequest](c))
	if err != nil {
		return fail(l, "update_staff", err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *StaffHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.staff.delete")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteStaff(ctx, id); err != nil {
		return fail(l, "delete_staff", err)
	}
	l.Info("delete_staff_success", "staff_id", id)
	return c.NoContent(http.StatusNoContent)
}
