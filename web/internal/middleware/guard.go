// Package middleware holds the web runtime's request-level policies.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/logitrack/clients/web/internal/cookiestore"
)

// Paths reachable without a session.
var publicPrefixes = []string{
	"/login",
	"/register",
	"/reset-password",
	"/static",
	"/favicon.ico",
	"/health",
}

// Public paths that bounce an already signed-in user to the
// dashboard. Reset-password is deliberately not here: it stays
// reachable while logged in.
var authedRedirects = map[string]bool{
	"/":         true,
	"/login":    true,
	"/register": true,
}

// Guard gates navigation on token presence alone. It never decodes
// or validates the token: an expired-but-present token passes, and
// the first authenticated API call behind it comes back 401 and
// tears the session down through the transport.
func Guard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			hasToken := cookiestore.HasToken(c)

			if isPublic(path) {
				if hasToken && authedRedirects[path] {
					return c.Redirect(http.StatusFound, "/dashboard")
				}
				return next(c)
			}

			if !hasToken {
				return c.Redirect(http.StatusFound, "/login")
			}
			return next(c)
		}
	}
}

func isPublic(path string) bool {
	if path == "/" {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
