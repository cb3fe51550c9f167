package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

// AccountHTTP serves the customer self-service endpoints.
type AccountHTTP struct {
	Svc     *service.AuthService
	Metrics *metrics.Metrics
}

func result(err error) string {
	if err != nil {
		return "rejected"
	}
	return "ok"
}

func (h *AccountHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.register")

	cust, err := h.Svc.Register(ctx, decodeBody[transport.CustomerRequest](c), origin(c))
	h.Metrics.AuthEvent("register", result(err))
	if err != nil {
		return fail(l, "register", err)
	}

	l.Info("register_success", "customer_id", cust.ID)
	return c.JSON(http.StatusCreated, transport.RegisterResponse{
		CustomerID:      cust.ID,
		UserName:        cust.UserName,
		FirstName:       cust.FirstName,
		LastName:        cust.LastName,
		Email:           cust.Email,
		IsEmailVerified: cust.IsEmailVerified,
		Detail:          service.DetailRegistered,
	})
}

func (h *AccountHTTP) Confirm(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.confirm")

	detail, err := h.Svc.Confirm(ctx, strings.TrimSpace(c.QueryParam("token")))
	h.Metrics.AuthEvent("confirm", result(err))
	if err != nil {
		return fail(l, "confirm", err)
	}
	return c.JSON(http.StatusOK, transport.DetailResponse{Detail: detail})
}

func (h *AccountHTTP) ResendConfirmation(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.resend_confirmation")

	detail, err := h.Svc.ResendConfirmation(ctx, decodeBody[transport.AccountLookupRequest](c), origin(c))
	if err != nil {
		return fail(l, "resend_confirmation", err)
	}
	return c.JSON(http.StatusOK, transport.DetailResponse{Detail: detail})
}

func (h *AccountHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.login")

	req := decodeBody[transport.LoginRequest](c)
	res, err := h.Svc.Login(ctx, req.UserName, req.Password)
	h.Metrics.AuthEvent("login", result(err))
	if err != nil {
		return fail(l, "login", err)
	}

	l.Info("login_success", "customer_id", res.Customer.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Token:          res.Token,
		TokenExpiresIn: res.ExpiresIn,
		Customer:       res.Customer,
	})
}

func (h *AccountHTTP) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, auth.CurrentCustomer(c))
}

// Logout accepts expired and malformed tokens, so it is not behind RequireCustomer.
func (h *AccountHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.logout")

	detail, err := h.Svc.Logout(ctx, auth.BearerToken(c))
	h.Metrics.AuthEvent("logout", result(err))
	if err != nil {
		return fail(l, "logout", err)
	}
	return c.JSON(http.StatusOK, transport.DetailResponse{Detail: detail})
}

func (h *AccountHTTP) RequestPasswordReset(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.password_reset")

	detail, err := h.Svc.RequestPasswordReset(ctx, decodeBody[transport.AccountLookupRequest](c), origin(c))
	if err != nil {
		return fail(l, "password_reset", err)
	}
	return c.JSON(http.StatusOK, transport.DetailResponse{Detail: detail})
}

// ConfirmPasswordReset takes the token from the body, or from ?token= when the
// body has none.
func (h *AccountHTTP) ConfirmPasswordReset(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.password_reset_confirm")

	req := decodeBody[transport.PasswordResetConfirmRequest](c)
	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" {
		req.Token = strings.TrimSpace(c.QueryParam("token"))
	}

	detail, err := h.Svc.ConfirmPasswordReset(ctx, req)
	h.Metrics.AuthEvent("password_reset", result(err))
	if err != nil {
		return fail(l, "password_reset_confirm", err)
	}
	return c.JSON(http.StatusOK, transport.DetailResponse{Detail: detail})
}
