package middleware

import (
	"net/http"

	"sitepass/internal/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequireRole admits principals whose role is in the allowed set.
func RequireRole(roles ...entity.UserRole) echo.MiddlewareFunc {
	allowed := make(map[entity.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			if _, ok := allowed[principal.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

// RequireSelfOrAdmin admits an admin, or the principal whose own ID matches
// the named path parameter.
func RequireSelfOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			if principal.Role == entity.UserRoleAdmin {
				return next(c)
			}
			ownerID, err := uuid.Parse(c.Param(param))
			if err != nil || ownerID != principal.ID {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
