package middleware

import (
	"fmt"

	"github.com/campusleave/leavedesk/internal/pkg/validation"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// isoDate validates a YYYY-MM-DD calendar date
func isoDate(fl validator.FieldLevel) bool {
	_, err := validation.ParseDate(fl.Field().String())
	return err == nil
}

// RegisterValidators installs the custom binding tags on gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("isodate", isoDate); err != nil {
		return fmt.Errorf("register isodate validator: %w", err)
	}
	return nil
}
