package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"sitepass/internal/service"

	"github.com/labstack/echo/v4"
)

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"message": err.Error()})
}

// writeServiceError maps the service taxonomy to HTTP status classes. Only
// unmapped errors fall through as a generic 500.
func writeServiceError(c echo.Context, err error) error {
	var weak *service.WeakPasswordError
	if errors.As(err, &weak) {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"message": "password does not meet requirements",
			"errors":  weak.Violations,
		})
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrInvalidMFACode):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrAccountLocked):
		status = http.StatusLocked
	case errors.Is(err, service.ErrAccountInactive), errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrInvalidLink),
		errors.Is(err, service.ErrNoPendingVisitor):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrPlateTaken):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrVisitorCheckedIn),
		errors.Is(err, service.ErrVehicleInactive):
		status = http.StatusConflict
	case errors.Is(err, service.ErrMFARequired):
		status = http.StatusPreconditionRequired
	case errors.Is(err, service.ErrMFANotConfigured):
		status = http.StatusFailedDependency
	}
	if status == http.StatusInternalServerError {
		return writeError(c, status, errors.New("internal error"))
	}
	return writeError(c, status, err)
}

func parseLimitOffset(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}
