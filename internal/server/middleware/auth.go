package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware guards the API with a shared key carried in the
// X-API-Key header. When no key is configured the API is open, matching
// deployments behind a trusted reverse proxy.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		app := c.(*AppContext).App
		if app.APIKey == "" {
			return next(c)
		}

		provided := c.Request().Header.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(app.APIKey)) != 1 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		return next(c)
	}
}
