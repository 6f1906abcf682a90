package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/HarshwardhanZalte/NearBasket-backend/internal/service"
	"github.com/HarshwardhanZalte/NearBasket-backend/pkg/jwtutil"
	"github.com/HarshwardhanZalte/NearBasket-backend/pkg/logger"
)

// AuthMiddleware validates the JWT token and stores the authenticated
// principal in the request context.
func AuthMiddleware(jwt *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			// Get the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			// Check if it's a Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			// Validate the token
			claims, err := jwt.ValidateToken(parts[1])
			if err != nil {
				log.Error("Invalid JWT token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			if claims.Role == "" {
				log.Warn("JWT token does not contain a role")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token is missing the role claim"})
			}

			// Store the principal in context for handlers
			c.Set("user_id", claims.UserID)
			c.Set("mobile_number", claims.MobileNumber)
			c.Set("user_role", claims.Role)
			c.Set("principal", service.Principal{UserID: claims.UserID, Role: claims.Role})

			return next(c)
		}
	}
}

// PrincipalFromContext retrieves the authenticated principal set by
// AuthMiddleware. Returns ok=false on routes without the middleware.
func PrincipalFromContext(c echo.Context) (service.Principal, bool) {
	principal, ok := c.Get("principal").(service.Principal)
	return principal, ok
}
