package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sitepass/api/middleware"
	"sitepass/internal/dto"
	"sitepass/internal/entity"
	"sitepass/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type VisitorHandler struct {
	Service  *service.VisitorService
	Validate *validator.Validate
}

func NewVisitorHandler(svc *service.VisitorService, validate *validator.Validate) *VisitorHandler {
	return &VisitorHandler{Service: svc, Validate: validate}
}

func (h *VisitorHandler) Create(c echo.Context) error {
	var req dto.CreateVisitorRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	expectedDate, err := time.Parse("2006-01-02", req.ExpectedDate)
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid expected_date"))
	}

	input := service.CreateVisitorInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		HostEmployee: req.HostEmployee,
		Department:   req.Department,
		Purpose:      req.Purpose,
		ExpectedDate: expectedDate,
		ExpectedTime: req.ExpectedTime,
	}
	if principal, ok := middleware.PrincipalFromContext(c); ok {
		id := principal.ID
		input.CreatedByID = &id
	}

	visitor, err := h.Service.Create(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.VisitorResponseFromEntity(visitor, h.Service.Now()))
}

func (h *VisitorHandler) List(c echo.Context) error {
	limit, offset := parseLimitOffset(c)
	status := entity.VisitorStatus(c.QueryParam("status"))
	visitors, err := h.Service.List(c.Request().Context(), status, limit, offset)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.VisitorResponsesFromEntities(visitors, h.Service.Now()))
}

func (h *VisitorHandler) Get(c echo.Context) error {
	visitorID, err := parseVisitorID(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	visitor, err := h.Service.Get(c.Request().Context(), visitorID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.VisitorResponseFromEntity(visitor, h.Service.Now()))
}

func (h *VisitorHandler) Approve(c echo.Context) error {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	visitorID, err := parseVisitorID(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	visitor, err := h.Service.Approve(c.Request().Context(), visitorID, principal.ID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.VisitorResponseFromEntity(visitor, h.Service.Now()))
}

func (h *VisitorHandler) Reject(c echo.Context) error {
	visitorID, err := parseVisitorID(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	var req dto.RejectVisitorRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	visitor, err := h.Service.Reject(c.Request().Context(), visitorID, req.Reason)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.VisitorResponseFromEntity(visitor, h.Service.Now()))
}

func (h *VisitorHandler) CheckIn(c echo.Context) error {
	return h.check(c, h.Service.CheckIn)
}

func (h *VisitorHandler) CheckOut(c echo.Context) error {
	return h.check(c, h.Service.CheckOut)
}

func (h *VisitorHandler) Delete(c echo.Context) error {
	visitorID, err := parseVisitorID(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.Delete(c.Request().Context(), visitorID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// QRImage serves the visitor pass as image/png.
func (h *VisitorHandler) QRImage(c echo.Context) error {
	visitorID, err := parseVisitorID(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	png, err := h.Service.QRImage(c.Request().Context(), visitorID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *VisitorHandler) check(
	c echo.Context,
	op func(ctx context.Context, visitorID, guardID uuid.UUID, location string) (*entity.Visitor, error),
) error {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	visitorID, err := parseVisitorID(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	var req dto.CheckRequest
	if c.Request().ContentLength > 0 {
		if err := decodeJSON(c, &req); err != nil {
			return writeError(c, http.StatusBadRequest, err)
		}
	}

	visitor, err := op(c.Request().Context(), visitorID, principal.ID, req.Location)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.VisitorResponseFromEntity(visitor, h.Service.Now()))
}

func (h *VisitorHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func parseVisitorID(c echo.Context) (uuid.UUID, error) {
	visitorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.New("invalid visitor id")
	}
	return visitorID, nil
}
