package handler // handler defines http handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// currentRole returns the role claim stored by the auth middleware,
// or empty when absent.
func currentRole(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}

// currentEmail returns the normalized email claim stored by the auth
// middleware, or empty when absent.
func currentEmail(c echo.Context) string {
	if s, ok := c.Get("email").(string); ok {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return ""
}

// pathID parses the given path parameter as a positive uint64.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parseDateParam parses an optional YYYY-MM-DD query parameter.
// Returns the zero time when the parameter is absent.
func parseDateParam(c echo.Context, name string) (time.Time, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, errors.New("invalid " + name + ": expected YYYY-MM-DD")
	}
	return t.UTC(), nil
}
