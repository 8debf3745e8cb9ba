package handler

import (
	"net/http"

	"sitepass/internal/dto"
	"sitepass/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type EmployeeHandler struct {
	Service  *service.EmployeeService
	Validate *validator.Validate
}

func NewEmployeeHandler(svc *service.EmployeeService, validate *validator.Validate) *EmployeeHandler {
	return &EmployeeHandler{Service: svc, Validate: validate}
}

func (h *EmployeeHandler) Create(c echo.Context) error {
	var req dto.CreateEmployeeRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			return writeError(c, http.StatusBadRequest, err)
		}
	}

	employee, err := h.Service.Create(c.Request().Context(), service.CreateEmployeeInput{
		EmployeeID: req.EmployeeID,
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.EmployeeResponseFromEntity(employee))
}

func (h *EmployeeHandler) List(c echo.Context) error {
	employees, err := h.Service.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.EmployeeResponsesFromEntities(employees))
}
