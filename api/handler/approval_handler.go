package handler

import (
	"net/http"

	"sitepass/internal/dto"
	"sitepass/internal/service"

	"github.com/labstack/echo/v4"
)

// ApprovalHandler serves the magic-link endpoint. It runs outside the auth
// gate: possession of the link is the credential.
type ApprovalHandler struct {
	Service *service.ApprovalService
	Clock   service.Clock
}

func NewApprovalHandler(svc *service.ApprovalService, clock service.Clock) *ApprovalHandler {
	return &ApprovalHandler{Service: svc, Clock: clock}
}

func (h *ApprovalHandler) Handle(c echo.Context) error {
	token := c.QueryParam("token")
	action := c.QueryParam("action")

	visitor, err := h.Service.HandleLink(c.Request().Context(), token, action)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.VisitorResponseFromEntity(visitor, h.Clock.Now()))
}
