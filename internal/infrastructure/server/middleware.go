package server

import (
	"github.com/labstack/echo/v4"

	"github.com/practicas/core/internal/domain/entities"
	"github.com/practicas/core/internal/ports"
)

const principalKey = "principal"

// authMiddleware checks the Authorization header before a mutating route runs
func (s *Server) authMiddleware(authService ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := authService.Authenticate(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				event := "invalid_token"
				if entities.IsKind(err, entities.KindUnauthorized) {
					event = "missing_token"
				}
				s.logger.LogSecurityEvent(event, "", c.RealIP(), map[string]interface{}{
					"method":   c.Request().Method,
					"endpoint": c.Request().URL.Path,
				})
				return err
			}

			c.Set(principalKey, principal)

			return next(c)
		}
	}
}

// principalFromContext returns the authenticated caller, nil on open routes
func principalFromContext(c echo.Context) *ports.Principal {
	principal, ok := c.Get(principalKey).(*ports.Principal)
	if !ok {
		return nil
	}
	return principal
}
