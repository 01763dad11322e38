package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"tradeport/internal/delivery/http/middleware"
	"tradeport/internal/delivery/http/response"
	"tradeport/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ManufacturerHandler holds dependencies for manufacturer-related handlers.
type ManufacturerHandler struct {
	uc     usecase.ManufacturerUsecase
	logger *slog.Logger
}

// NewManufacturerHandler is the constructor for ManufacturerHandler, injected by Fx.
func NewManufacturerHandler(uc usecase.ManufacturerUsecase, logger *slog.Logger) *ManufacturerHandler {
	return &ManufacturerHandler{
		uc:     uc,
		logger: logger,
	}
}

// pageParams parses the pagination query, defaults applied downstream.
func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))

	return page, size
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

type manufacturerRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Address     string `json:"address" validate:"max=1000"`
}

// Create handles manufacturer listing creation.
func (h *ManufacturerHandler) Create(c echo.Context) error {
	var req manufacturerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid manufacturer input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	manufacturer, err := h.uc.Create(c.Request().Context(), middleware.GetAuth(c), &usecase.CreateManufacturerInput{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, manufacturer, "Manufacturer created successfully")
}

// Update handles manufacturer field updates.
func (h *ManufacturerHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.BindingError(c, "INVALID_ID", "Invalid manufacturer id")
	}

	var req manufacturerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid manufacturer input")
	}

	manufacturer, err := h.uc.Update(c.Request().Context(), middleware.GetAuth(c), id, &usecase.UpdateManufacturerInput{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, manufacturer, "Manufacturer updated successfully")
}

// Delete handles manufacturer removal.
func (h *ManufacturerHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.BindingError(c, "INVALID_ID", "Invalid manufacturer id")
	}

	if err := h.uc.Delete(c.Request().Context(), middleware.GetAuth(c), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Manufacturer deleted successfully")
}

// Get returns one manufacturer by id.
func (h *ManufacturerHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.BindingError(c, "INVALID_ID", "Invalid manufacturer id")
	}

	manufacturer, err := h.uc.GetByID(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, manufacturer, "")
}

// GetMine returns the caller's manufacturer.
func (h *ManufacturerHandler) GetMine(c echo.Context) error {
	auth := middleware.GetAuth(c)

	manufacturer, err := h.uc.GetByOwner(c.Request().Context(), auth.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, manufacturer, "")
}

// ListForAdmin returns the manufacturers registered under the calling admin.
func (h *ManufacturerHandler) ListForAdmin(c echo.Context) error {
	auth := middleware.GetAuth(c)

	manufacturers, err := h.uc.ListForAdmin(c.Request().Context(), auth.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, manufacturers, "")
}

// List returns a page of all manufacturers.
func (h *ManufacturerHandler) List(c echo.Context) error {
	page, size := pageParams(c)

	result, err := h.uc.List(c.Request().Context(), page, size)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "")
}
