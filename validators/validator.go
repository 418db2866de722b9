// Package validators wires go-playground/validator into Echo so handlers can
// call c.Validate on bound request structs.
package validators

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts a validator.Validate to echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the Echo validator used by the server.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
