// Package validator bridges go-playground/validator into echo's Validator slot.
package validator

import (
	"fmt"

	domainerrors "tradeport/internal/domain/errors"

	playground "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type echoValidator struct {
	validate *playground.Validate
}

// New builds the echo validator backed by struct tags.
func New() echo.Validator {
	return &echoValidator{validate: playground.New()}
}

// Validate checks struct tags and surfaces failures as a single structured
// validation error.
func (v *echoValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(playground.ValidationErrors)
	if !ok {
		return domainerrors.NewValidationError(err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		messages = append(messages, fmt.Sprintf("%s failed on %s", fieldErr.Field(), fieldErr.Tag()))
	}

	return domainerrors.NewValidationError(messages...)
}
