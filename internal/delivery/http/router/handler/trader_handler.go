package handler

import (
	"log/slog"
	"net/http"

	"tradeport/internal/delivery/http/middleware"
	"tradeport/internal/delivery/http/response"
	"tradeport/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type createTraderRequest struct {
	Title       string   `json:"title" validate:"required,min=2,max=255"`
	Email       string   `json:"email" validate:"required,email"`
	Address     string   `json:"address" validate:"max=1000"`
	ProductRefs []string `json:"products" validate:"dive,uuid"`
}

type updateTraderRequest struct {
	Title       string   `json:"title" validate:"omitempty,min=2,max=255"`
	Email       string   `json:"email" validate:"omitempty,email"`
	Address     string   `json:"address" validate:"max=1000"`
	ProductRefs []string `json:"products" validate:"dive,uuid"`
}

type dashboardRequest struct {
	Title       string `json:"title" validate:"omitempty,min=2,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Address     string `json:"address" validate:"max=1000"`
}

// TraderHandler holds dependencies for trader-related handlers.
type TraderHandler struct {
	uc     usecase.TraderUsecase
	logger *slog.Logger
}

// NewTraderHandler is the constructor for TraderHandler, injected by Fx.
func NewTraderHandler(uc usecase.TraderUsecase, logger *slog.Logger) *TraderHandler {
	return &TraderHandler{
		uc:     uc,
		logger: logger,
	}
}

func parseRefs(raw []string) ([]uuid.UUID, error) {
	refs := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, err
		}

		refs = append(refs, id)
	}

	return refs, nil
}

// Create links an existing trader to the acting manufacturer or provisions a
// new trader account with a generated credential.
func (h *TraderHandler) Create(c echo.Context) error {
	var req createTraderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	refs, err := parseRefs(req.ProductRefs)
	if err != nil {
		return response.BindingError(c, "INVALID_ID", "Invalid product id in products")
	}

	output, err := h.uc.Create(c.Request().Context(), middleware.GetAuth(c), &usecase.CreateTraderInput{
		Title:       req.Title,
		Email:       req.Email,
		Address:     req.Address,
		ProductRefs: refs,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	data := echo.Map{"trader": output.Trader}
	if output.GeneratedPassword != "" {
		data["password"] = output.GeneratedPassword
	}

	return response.Success(c, http.StatusCreated, data, "Trader created successfully")
}

// Update patches a trader and reconciles the shared-product set.
func (h *TraderHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.BindingError(c, "INVALID_ID", "Invalid trader id")
	}

	var req updateTraderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	refs, err := parseRefs(req.ProductRefs)
	if err != nil {
		return response.BindingError(c, "INVALID_ID", "Invalid product id in products")
	}

	trader, err := h.uc.Update(c.Request().Context(), middleware.GetAuth(c), id, &usecase.UpdateTraderInput{
		Title:       req.Title,
		Email:       req.Email,
		Address:     req.Address,
		ProductRefs: refs,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, trader, "Trader updated successfully")
}

// Delete unlinks a trader from the acting manufacturer, cascading the trader
// account itself once no manufacturer link remains.
func (h *TraderHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.BindingError(c, "INVALID_ID", "Invalid trader id")
	}

	if err := h.uc.Delete(c.Request().Context(), middleware.GetAuth(c), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Trader deleted successfully")
}

// Get returns one trader by id.
func (h *TraderHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.BindingError(c, "INVALID_ID", "Invalid trader id")
	}

	trader, err := h.uc.GetByID(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, trader, "")
}

// GetByName looks traders up by their normalized title.
func (h *TraderHandler) GetByName(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return response.BindingError(c, "INVALID_INPUT", "Trader name is required")
	}

	traders, err := h.uc.GetByName(c.Request().Context(), name)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, traders, "")
}

// ListAvailable returns traders not yet linked to the acting manufacturer.
func (h *TraderHandler) ListAvailable(c echo.Context) error {
	auth := middleware.GetAuth(c)

	traders, err := h.uc.ListAvailable(c.Request().Context(), auth.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, traders, "")
}

// ListMine pages the traders linked to the acting manufacturer.
func (h *TraderHandler) ListMine(c echo.Context) error {
	auth := middleware.GetAuth(c)
	page, size := pageParams(c)

	result, err := h.uc.ListByManufacturer(c.Request().Context(), auth.UserID, page, size)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "")
}

// List pages all traders.
func (h *TraderHandler) List(c echo.Context) error {
	page, size := pageParams(c)

	result, err := h.uc.List(c.Request().Context(), page, size)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "")
}

// CreateDashboard creates the calling trader's dashboard profile.
func (h *TraderHandler) CreateDashboard(c echo.Context) error {
	var req dashboardRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	dashboard, err := h.uc.CreateDashboard(c.Request().Context(), middleware.GetAuth(c), &usecase.DashboardInput{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, dashboard, "Dashboard created successfully")
}

// UpdateDashboard patches the calling trader's dashboard profile.
func (h *TraderHandler) UpdateDashboard(c echo.Context) error {
	var req dashboardRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	dashboard, err := h.uc.UpdateDashboard(c.Request().Context(), middleware.GetAuth(c), &usecase.DashboardInput{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, dashboard, "Dashboard updated successfully")
}

// GetDashboard returns the calling trader's dashboard profile.
func (h *TraderHandler) GetDashboard(c echo.Context) error {
	auth := middleware.GetAuth(c)

	dashboard, err := h.uc.GetDashboard(c.Request().Context(), auth.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, dashboard, "")
}

// RefreshDashboard re-snapshots the dashboard's manufacturer list from the
// trader's live links.
func (h *TraderHandler) RefreshDashboard(c echo.Context) error {
	dashboard, err := h.uc.RefreshDashboardManufacturers(c.Request().Context(), middleware.GetAuth(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, dashboard, "Dashboard refreshed successfully")
}
