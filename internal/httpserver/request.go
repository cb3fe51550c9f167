package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON object into a T. An empty, malformed or ill-typed
// body yields the zero T so validation reports the missing fields.
func decodeBody[T any](c echo.Context) T {
	var zero T
	body := c.Request().Body
	if body == nil {
		return zero
	}
	raw, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil || len(strings.TrimSpace(string(raw))) == 0 {
		return zero
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero
	}
	return v
}

// pathID parses the :id route parameter. Anything that is not a positive
// integer cannot name a row.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	return uint(id), nil
}

// origin is the scheme and host the client used, for links in outgoing mail.
func origin(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host
}
