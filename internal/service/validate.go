package service

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/target/storefront/internal/errors"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their wire names so messages line up with backend errors.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateInput checks in against its validate tags. Failures become a
// validation AppError carrying per-field messages; nothing is sent.
func validateInput(in any) error {
	err := inputValidator().Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid input")
	}

	appErr := &apperrors.AppError{
		Code:   apperrors.ErrCodeValidation,
		Fields: make(map[string][]string, len(fieldErrs)),
	}
	for _, fe := range fieldErrs {
		msg := fieldMessage(fe)
		if appErr.Field == "" {
			appErr.Field, appErr.Message = fe.Field(), msg
		}
		appErr.Fields[fe.Field()] = append(appErr.Fields[fe.Field()], msg)
	}
	return appErr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
		}
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
		}
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "number":
		return "A valid number is required."
	case "eqfield":
		return "Passwords do not match."
	case "nefield":
		return "New password must differ from the current password."
	case "gt", "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", minimumFor(fe))
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("Invalid value for %s.", fe.Field())
	}
}

func minimumFor(fe validator.FieldError) string {
	if fe.Tag() != "gt" {
		return fe.Param()
	}
	if n, err := strconv.Atoi(fe.Param()); err == nil {
		return strconv.Itoa(n + 1)
	}
	return fe.Param()
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
