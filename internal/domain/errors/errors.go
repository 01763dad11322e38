package errors

import (
	"net/http"

	"tradeport/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Validation
	ErrValidationFailed = NewBaseError(
		http.StatusUnprocessableEntity,
		"VALIDATION_FAILED",
		"Invalid inputs passed, please check your data.",
		"",
	)

	// User / credential errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"Could not find user for the provided id.",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"User exists already, please login instead.",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid credentials, could not log you in.",
		"",
	)

	ErrAdminNotFound = NewBaseError(
		http.StatusNotFound,
		"ADMIN_NOT_FOUND",
		"Could not find admin for provided id.",
		"",
	)

	// Manufacturer errors
	ErrManufacturerNotFound = NewBaseError(
		http.StatusNotFound,
		"MANUFACTURER_NOT_FOUND",
		"Could not find manufacturer for provided id.",
		"",
	)

	ErrManufacturerNotEmpty = NewBaseError(
		http.StatusConflict,
		"MANUFACTURER_NOT_EMPTY",
		"Manufacturer still has linked products or traders, remove them first.",
		"",
	)

	// Trader errors
	ErrTraderNotFound = NewBaseError(
		http.StatusNotFound,
		"TRADER_NOT_FOUND",
		"Could not find trader for the provided id.",
		"",
	)

	ErrTraderAlreadyExists = NewBaseError(
		http.StatusConflict,
		"TRADER_ALREADY_EXISTS",
		"Trader already exists",
		"",
	)

	ErrTraderDashboardNotFound = NewBaseError(
		http.StatusNotFound,
		"TRADER_DASHBOARD_NOT_FOUND",
		"Could not find trader details, please submit it.",
		"",
	)

	// Product errors
	ErrProductNotFound = NewBaseError(
		http.StatusNotFound,
		"PRODUCT_NOT_FOUND",
		"Could not find product for the provided id.",
		"",
	)

	ErrProductAlreadyExists = NewBaseError(
		http.StatusConflict,
		"PRODUCT_ALREADY_EXISTS",
		"Product already exists",
		"",
	)

	ErrFileNotFound = NewBaseError(
		http.StatusNotFound,
		"FILE_NOT_FOUND",
		"Could not find the file on server.",
		"",
	)

	// Authorization
	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"You are not allowed to perform this action.",
		"",
	)

	ErrTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_INVALID",
		"Authentication failed! Please logout and login again.",
		"",
	)
)

// NewDatabaseExecuteError wraps a low-level store failure as an internal error.
func NewDatabaseExecuteError(err error, message string) error {
	base := NewBaseError(
		http.StatusInternalServerError,
		"DATABASE_EXECUTE_ERROR",
		message,
		err.Error(),
	)

	return errors.WithStack(base)
}

// NewValidationError surfaces a structured list of field messages as a single
// validation failure.
func NewValidationError(messages ...string) error {
	details := ""
	for i, msg := range messages {
		if i > 0 {
			details += "; "
		}
		details += msg
	}

	return ErrValidationFailed.WithDetails(details)
}
