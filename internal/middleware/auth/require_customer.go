package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
)

const customerKey = "customer"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Customer, error)
}

// BearerToken returns the credential of an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(c echo.Context) string {
	parts := strings.Fields(c.Request().Header.Get(echo.HeaderAuthorization))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireCustomer rejects requests without a valid, unrevoked auth token and
// stores the resolved customer on the echo context.
func RequireCustomer(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("middleware", "auth.require_customer")

			customer, err := authn.Authenticate(ctx, BearerToken(c))
			if err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					detail := service.Detail(err)
					l.Warn("authenticate_error", "status", 401, "reason", detail)
					return echo.NewHTTPError(http.StatusUnauthorized, detail)
				}
				l.Error("authenticate_error", "status", 500, "reason", "cannot check token", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}

			c.Set(customerKey, customer)
			return next(c)
		}
	}
}

// CurrentCustomer returns the customer set by RequireCustomer, or nil.
func CurrentCustomer(c echo.Context) *models.Customer {
	customer, _ := c.Get(customerKey).(*models.Customer)
	return customer
}
