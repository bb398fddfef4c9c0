package middleware

import (
	"net/http"
	"strings"

	"property-service/internal/model"
	"property-service/pkg/logger"
	"property-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TokenVerifier resolves a raw bearer token to its user.
type TokenVerifier interface {
	Verify(raw string) (*model.User, error)
}

// Auth validates the bearer token and stores the caller's identity in the
// context. Handlers downstream read user/user_id explicitly; there is no
// implicit global current-user state.
func Auth(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthenticated."})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("invalid Authorization header format")
				prometheus.RecordAuthError("malformed_header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthenticated."})
			}

			raw := parts[1]
			user, err := tokens.Verify(raw)
			if err != nil {
				log.Warn("token verification failed", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthenticated."})
			}

			c.Set("user", user)
			c.Set("user_id", user.ID)
			c.Set("token", raw)

			return next(c)
		}
	}
}

// CurrentUser retrieves the authenticated user stored by Auth.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get("user").(*model.User)
	return user, ok
}

// CurrentUserID retrieves the authenticated user's id stored by Auth.
func CurrentUserID(c echo.Context) (uint, bool) {
	id, ok := c.Get("user_id").(uint)
	return id, ok
}
