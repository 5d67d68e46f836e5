package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse represents the structure of the validation error response.
type ErrorResponse struct {
	Errors []CError `json:"errors"`
}

// CError represents a single validation error.
type CError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// Validator wraps the validator instance from the go-playground/validator package.
type Validator struct {
	validator *validator.Validate
}

// NewValidator returns a new instance of the Validator struct.
func NewValidator() *Validator {
	v := validator.New()

	CustomValidation(v)

	// Report field names from json tags so errors match the request payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validator: v}
}

// Validate validates the input struct and returns JSON-friendly errors.
func (v *Validator) Validate(str interface{}) *ErrorResponse {
	err := v.validator.Struct(str)
	if err == nil {
		return nil
	}
	response := ErrorResponse{Errors: make([]CError, 0)}
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, err := range validationErrors {
			field := err.Field()
			tag := err.Tag()
			message := getErrorMessage(field, tag, err.Param())
			response.Errors = append(response.Errors, CError{Field: field, Msg: message})
		}
	}
	return &response
}

// getErrorMessage returns the error message based on the field and tag.
func getErrorMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, param)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of the following values: %s", field, param)
	case "catalogcode":
		return fmt.Sprintf("%s must contain only letters and digits", field)
	default:
		return fmt.Sprintf("something wrong on %s; %s", field, tag)
	}
}

var catalogCodeRe = regexp.MustCompile(`(?i)^[A-Z0-9]{2,10}$`)

// CustomValidation registers validators specific to the catalog domain.
func CustomValidation(v *validator.Validate) {
	// College and branch codes form the composite catalog key, e.g. "PES-CSE-5".
	// Case-insensitive; the key builder uppercases before matching.
	v.RegisterValidation("catalogcode", func(fl validator.FieldLevel) bool {
		return catalogCodeRe.MatchString(strings.TrimSpace(fl.Field().String()))
	})
}
