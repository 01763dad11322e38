// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"mime/multipart"
	"net/http"

	"tradeport/internal/delivery/http/response"
	"tradeport/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for account-related handlers.
type UserHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: logger,
	}
}

type signupRequest struct {
	Name     string `validate:"required,min=2,max=100"`
	Email    string `validate:"required,email"`
	MobileNo string `validate:"max=30"`
	Password string `validate:"required,min=6"`
	Folder   string `validate:"required,max=100"`
}

// fileUploadFromHeader opens a multipart file header as a use case upload.
// The caller owns closing via the returned closer.
func fileUploadFromHeader(header *multipart.FileHeader) (*usecase.FileUpload, multipart.File, error) {
	file, err := header.Open()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open upload")
	}

	return &usecase.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}, file, nil
}

// Signup handles manufacturer account registration, multipart form with an
// optional profile image.
func (h *UserHandler) Signup(c echo.Context) error {
	req := signupRequest{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		MobileNo: c.FormValue("mobileNo"),
		Password: c.FormValue("password"),
		Folder:   c.FormValue("folder"),
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	input := &usecase.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		MobileNo: req.MobileNo,
		Password: req.Password,
		Folder:   req.Folder,
	}

	if header, err := c.FormFile("image"); err == nil {
		upload, file, err := fileUploadFromHeader(header)
		if err != nil {
			return errors.WithStack(err)
		}
		defer file.Close()
		input.Image = upload
	}

	output, err := h.uc.Signup(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "Account registered successfully")
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles the login request.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword regenerates a trader account's credential.
func (h *UserHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid recovery input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.ForgotPassword(c.Request().Context(), &usecase.ForgotPasswordInput{Email: req.Email})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Credential regenerated")
}

// ListUsers returns every account.
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, users, "")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
