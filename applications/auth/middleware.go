package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// JWTAuthMiddleware guards the API with staff tokens. A nil issuer disables
// the check.
func JWTAuthMiddleware(log *slog.Logger, issuer *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if issuer == nil {
			return next
		}
		return func(c echo.Context) error {
			tokenString := ""

			// Prefer Authorization header
			if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && parts[0] == "Bearer" {
					tokenString = parts[1]
				}
			}

			// Fallback: ?token= lets a browser open the inline invoice preview.
			if tokenString == "" {
				tokenString = c.QueryParam("token")
				if tokenString != "" {
					log.Info(fmt.Sprintf("[auth] Using token from query parameter for path: %s", c.Path()))
				}
			}

			if tokenString == "" {
				log.Warn("[auth] JWT check failed: No token in header or query.")
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization token missing"})
			}

			claims, err := issuer.Parse(tokenString)
			if err != nil {
				log.Warn(fmt.Sprintf("[auth] %v", err))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
			}

			c.Set("username", claims.Username)
			c.Set("userRole", claims.Role)
			return next(c)
		}
	}
}
