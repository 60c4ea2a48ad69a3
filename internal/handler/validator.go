package handler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

var walletPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	_ = v.RegisterValidation("wallet", validateWallet)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// validateWallet checks the 0x-prefixed 40-hex-char wallet address form
func validateWallet(fl validator.FieldLevel) bool {
	return walletPattern.MatchString(fl.Field().String())
}

// ValidateWalletAddress validates a wallet address outside struct validation,
// for path and query parameters.
func ValidateWalletAddress(wallet string) error {
	if !walletPattern.MatchString(wallet) {
		return errors.New("invalid wallet address")
	}
	return nil
}

// FormatValidationError formats validation errors into a user-friendly map.
// This prevents leaking internal struct names.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "wallet":
			errs[field] = "Must be a 0x-prefixed 40-character hex address"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s characters", e.Param())
		case "oneof":
			errs[field] = fmt.Sprintf("Must be one of: %s", e.Param())
		case "gt", "gte":
			errs[field] = "Value is too small"
		case "lt", "lte":
			errs[field] = "Value is too large"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}
