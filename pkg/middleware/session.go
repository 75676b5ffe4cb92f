package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"micampo/entities"
)

const UserKey = "user"

type SessionSource interface {
	Current() (entities.User, bool)
}

// Session exposes the active user, if any, as c.Get(UserKey).
func Session(src SessionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if u, ok := src.Current(); ok {
				c.Set(UserKey, u)
			}
			return next(c)
		}
	}
}

// RequireSession answers 401 while nobody is logged in. When enabled is
// false it passes everything through (demo dashboards).
func RequireSession(enabled bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !enabled {
				return next(c)
			}
			if _, ok := c.Get(UserKey).(entities.User); !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "login required"})
			}
			return next(c)
		}
	}
}
