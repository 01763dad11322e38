package handler

import (
	"log/slog"
	"net/http"
	"path"

	"tradeport/internal/delivery/http/middleware"
	"tradeport/internal/delivery/http/response"
	"tradeport/internal/domain/entity"
	"tradeport/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProductHandler holds dependencies for product-related handlers.
type ProductHandler struct {
	uc     usecase.ProductUsecase
	logger *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(uc usecase.ProductUsecase, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: logger,
	}
}

// productFields reads the scalar multipart form fields shared by create and update.
func productFields(c echo.Context) usecase.ProductFields {
	fields := usecase.ProductFields{
		Title:        c.FormValue("title"),
		Description:  c.FormValue("description"),
		Price:        c.FormValue("price"),
		Category:     c.FormValue("category"),
		Impurities:   c.FormValue("impurities"),
		RefStandards: c.FormValue("refStandards"),
		Folder:       c.FormValue("folder"),
	}

	if form, err := c.MultipartForm(); err == nil {
		fields.DMF = form.Value["dmf"]
		fields.Pharmacopoeias = form.Value["pharmacopoeias"]
	}

	return fields
}

// productUploads opens every submitted document slot upload. Closers are
// registered on the request so they outlive streaming into the blob store.
func productUploads(c echo.Context) (map[entity.FileField]*usecase.FileUpload, func(), error) {
	uploads := make(map[entity.FileField]*usecase.FileUpload)
	var closers []func() error

	cleanup := func() {
		for _, close := range closers {
			_ = close()
		}
	}

	for _, field := range entity.FileFields {
		header, err := c.FormFile(string(field))
		if err != nil {
			continue
		}

		upload, file, err := fileUploadFromHeader(header)
		if err != nil {
			cleanup()

			return nil, nil, err
		}

		uploads[field] = upload
		closers = append(closers, file.Close)
	}

	return uploads, cleanup, nil
}

// Create handles product creation from a multipart form.
func (h *ProductHandler) Create(c echo.Context) error {
	fields := productFields(c)
	if fields.Title == "" {
		return response.BindingError(c, "INVALID_INPUT", "Product title is required")
	}

	uploads, cleanup, err := productUploads(c)
	if err != nil {
		return errors.WithStack(err)
	}
	defer cleanup()

	product, err := h.uc.Create(c.Request().Context(), middleware.GetAuth(c), &usecase.CreateProductInput{
		ProductFields: fields,
		Files:         uploads,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Product created successfully")
}

// Update handles product updates from a multipart form. Form values for
// document slots without a fresh upload drive retain-or-clear semantics.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.BindingError(c, "INVALID_ID", "Invalid product id")
	}

	uploads, cleanup, err := productUploads(c)
	if err != nil {
		return errors.WithStack(err)
	}
	defer cleanup()

	fileValues := make(map[entity.FileField]string)
	for _, field := range entity.FileFields {
		if _, ok := uploads[field]; !ok {
			fileValues[field] = c.FormValue(string(field))
		}
	}

	product, err := h.uc.Update(c.Request().Context(), middleware.GetAuth(c), id, &usecase.UpdateProductInput{
		ProductFields: productFields(c),
		Files:         uploads,
		FileValues:    fileValues,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated successfully")
}

// Delete handles product removal.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.BindingError(c, "INVALID_ID", "Invalid product id")
	}

	if err := h.uc.Delete(c.Request().Context(), middleware.GetAuth(c), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Product deleted successfully")
}

// Get returns one product by id.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.BindingError(c, "INVALID_ID", "Invalid product id")
	}

	product, err := h.uc.GetByID(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "")
}

// ListMine pages the calling manufacturer's catalog.
func (h *ProductHandler) ListMine(c echo.Context) error {
	auth := middleware.GetAuth(c)
	page, size := pageParams(c)

	result, err := h.uc.ListByManufacturer(c.Request().Context(), auth.UserID, c.QueryParam("category"), page, size)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "")
}

// ListShared pages every product shared with the calling trader.
func (h *ProductHandler) ListShared(c echo.Context) error {
	auth := middleware.GetAuth(c)
	page, size := pageParams(c)

	result, err := h.uc.ListForTrader(c.Request().Context(), auth.Email, c.QueryParam("category"), page, size)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "")
}

// ListForTrader pages the products the calling manufacturer shares with one trader.
func (h *ProductHandler) ListForTrader(c echo.Context) error {
	traderID, err := uuid.Parse(c.Param("traderId"))
	if err != nil {
		return response.BindingError(c, "INVALID_ID", "Invalid trader id")
	}

	auth := middleware.GetAuth(c)
	page, size := pageParams(c)

	result, err := h.uc.ListForTraderScopedToManufacturer(c.Request().Context(), traderID, auth.UserID, c.QueryParam("category"), page, size)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "")
}

// Download streams one stored product document by its blob key.
func (h *ProductHandler) Download(c echo.Context) error {
	key := c.QueryParam("key")
	if key == "" {
		return response.BindingError(c, "INVALID_INPUT", "File key is required")
	}

	output, err := h.uc.ResolveDownload(c.Request().Context(), key)
	if err != nil {
		return errors.WithStack(err)
	}
	defer output.Content.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+path.Base(output.Key)+`"`)

	return c.Stream(http.StatusOK, echo.MIMEOctetStream, output.Content)
}
