package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const userIdContextKey = "user_id"

// RequireAuth guards management endpoints with the bearer token issued by
// the auth service. The authenticated user id lands in the echo context.
func (s *Server) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		userId, _, err := s.authService.VerifyToken(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid bearer token")
		}

		c.Set(userIdContextKey, userId)
		return next(c)
	}
}

func authenticatedUser(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get(userIdContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}
	return id, nil
}
