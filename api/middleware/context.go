package middleware

import (
	"sitepass/internal/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const contextPrincipalKey = "auth_principal"

// Principal is the authenticated actor attached to the request after the
// bearer token resolves to a live, active user.
type Principal struct {
	ID    uuid.UUID
	Role  entity.UserRole
	Email string
}

func SetPrincipal(c echo.Context, principal Principal) {
	c.Set(contextPrincipalKey, principal)
}

func PrincipalFromContext(c echo.Context) (Principal, bool) {
	value := c.Get(contextPrincipalKey)
	principal, ok := value.(Principal)
	return principal, ok
}
