package middleware

import (
	"net/http"
	"strings"

	"github.com/dankdeals/dankdeals-backend-go/models"
	"github.com/dankdeals/dankdeals-backend-go/utils"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware parses the bearer token and stores the user id and role on
// the echo context.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing authorization header"})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid authorization header format"})
		}

		claims, err := utils.ValidateJWT(tokenParts[1])
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		return next(c)
	}
}

// AdminMiddleware rejects any request whose token does not carry the admin
// role. It must run after AuthMiddleware.
func AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, ok := c.Get("role").(models.UserRole)
		if !ok || role != models.RoleAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden"})
		}
		return next(c)
	}
}
