package http

import (
	"net/http"
	"strings"

	"atlasbourse/internal/market/dto"
	"atlasbourse/internal/market/service"
	"atlasbourse/pkg/logger"

	"github.com/labstack/echo/v4"
)

const userIDContextKey = "user_id"

// SessionMiddleware authenticates the bearer token and stores the user ID
// in the request context.
func SessionMiddleware(authService service.AuthService, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			userID, err := authService.Authenticate(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
			}
			c.Set(userIDContextKey, userID)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}

func currentUserID(c echo.Context) uint {
	if id, ok := c.Get(userIDContextKey).(uint); ok {
		return id
	}
	return 0
}
