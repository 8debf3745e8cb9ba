package handler

import (
	"errors"
	"net/http"

	"sitepass/api/middleware"
	"sitepass/internal/dto"
	"sitepass/internal/entity"
	"sitepass/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type VehicleHandler struct {
	Service  *service.VehicleService
	Validate *validator.Validate
}

func NewVehicleHandler(svc *service.VehicleService, validate *validator.Validate) *VehicleHandler {
	return &VehicleHandler{Service: svc, Validate: validate}
}

func (h *VehicleHandler) Create(c echo.Context) error {
	var req dto.CreateVehicleRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	vehicle, err := h.Service.Register(c.Request().Context(), service.RegisterVehicleInput{
		LicensePlate: req.LicensePlate,
		Type:         req.Type,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.VehicleResponseFromEntity(vehicle))
}

func (h *VehicleHandler) List(c echo.Context) error {
	limit, offset := parseLimitOffset(c)
	vehicles, err := h.Service.List(c.Request().Context(), limit, offset)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.VehicleResponsesFromEntities(vehicles))
}

func (h *VehicleHandler) Get(c echo.Context) error {
	vehicleID, err := parseVehicleID(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	vehicle, err := h.Service.Get(c.Request().Context(), vehicleID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.VehicleResponseFromEntity(vehicle))
}

func (h *VehicleHandler) RecordMovement(c echo.Context) error {
	vehicleID, err := parseVehicleID(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	var req dto.RecordMovementRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	input := service.RecordMovementInput{
		VehicleID:    vehicleID,
		MovementType: entity.MovementType(req.MovementType),
		Mileage:      req.Mileage,
		DriverName:   req.DriverName,
		Destination:  req.Destination,
	}
	if principal, ok := middleware.PrincipalFromContext(c); ok {
		id := principal.ID
		input.RecordedByID = &id
	}

	movement, err := h.Service.RecordMovement(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.MovementResponseFromEntity(movement))
}

func (h *VehicleHandler) Movements(c echo.Context) error {
	vehicleID, err := parseVehicleID(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	limit, offset := parseLimitOffset(c)
	movements, err := h.Service.Movements(c.Request().Context(), vehicleID, limit, offset)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MovementResponsesFromEntities(movements))
}

func (h *VehicleHandler) Presence(c echo.Context) error {
	vehicleID, err := parseVehicleID(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	onSite, err := h.Service.Presence(c.Request().Context(), vehicleID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.PresenceResponse{VehicleID: vehicleID.String(), OnSite: onSite})
}

func (h *VehicleHandler) Summary(c echo.Context) error {
	summary, err := h.Service.Summary(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.PresenceSummaryResponse{
		OnSite:    summary.OnSite,
		OffSite:   summary.OffSite,
		FleetSize: summary.FleetSize,
	})
}

func (h *VehicleHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func parseVehicleID(c echo.Context) (uuid.UUID, error) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.New("invalid vehicle id")
	}
	return vehicleID, nil
}
