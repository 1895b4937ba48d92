package domain

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// getValidator lazily initializes and returns a shared validator instance with custom rules.
func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New()

		_ = validatorInst.RegisterValidation("app_status", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if value == "" {
				return true
			}
			return IsValidApplicationStatus(value)
		})
	})
	return validatorInst
}

// ValidateStruct validates a struct using go-playground/validator and maps errors into the
// project's ValidationErrors format for consistent error handling.
func ValidateStruct(model interface{}) error {
	if err := getValidator().Struct(model); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			mapped := make(ValidationErrors, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				mapped = append(mapped, ValidationError{
					Field:   fieldErr.Field(),
					Message: formatValidationMessage(fieldErr),
					Type:    ErrInvalidField,
					Value:   fieldErr.Value(),
				})
			}
			return mapped
		}
		return err
	}
	return nil
}

func formatValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "field is required"
	case "max":
		return fmt.Sprintf("must not exceed %s", err.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	case "app_status":
		return fmt.Sprintf("must be one of: %v", ApplicationStatusKeys())
	default:
		return err.Error()
	}
}

// SecuritySanitizer provides HTML sanitization helpers for free-text fields.
type SecuritySanitizer struct {
	policy *bluemonday.Policy
}

func NewSecuritySanitizer() *SecuritySanitizer {
	return &SecuritySanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *SecuritySanitizer) SanitizeString(input string) string {
	return s.policy.Sanitize(input)
}

func (s *SecuritySanitizer) SanitizeStrings(inputs ...string) []string {
	result := make([]string, len(inputs))
	for i, input := range inputs {
		result[i] = s.policy.Sanitize(input)
	}
	return result
}
