package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with custom validation rules
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateRelay, RelayConfig{})

	return &Validator{validate: v}
}

// validateRelay checks rules that depend on the driver. Decoded list
// defaults may be empty rather than nil, so required_if cannot cover them.
func validateRelay(sl validator.StructLevel) {
	r, ok := sl.Current().Interface().(RelayConfig)
	if !ok {
		return
	}

	if r.Driver == "kafka" && len(r.Brokers) == 0 {
		sl.ReportError(r.Brokers, "Brokers", "Brokers", "required_if", "Driver kafka")
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}

	return nil
}

func (v *Validator) formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf(
			"field '%s' failed validation: %s (value: '%v')",
			e.Namespace(),
			e.Tag(),
			e.Value(),
		))
	}

	return fmt.Errorf("%w: %s", merr.ErrConfiguration, strings.Join(messages, "; "))
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
