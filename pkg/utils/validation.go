package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	phoneRegex = regexp.MustCompile(`^0\d{10}$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	pinRegex   = regexp.MustCompile(`^\d{4}$`)
)

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("wallet_phone", func(fl validator.FieldLevel) bool {
		return ValidatePhone(fl.Field().String())
	})
	validate.RegisterValidation("email_lite", func(fl validator.FieldLevel) bool {
		return ValidateEmail(fl.Field().String())
	})
	validate.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
		return ValidatePin(fl.Field().String())
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidatePhone accepts 11-digit local numbers starting with 0.
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func ValidatePin(pin string) bool {
	return pinRegex.MatchString(pin)
}

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

// FormatValidationError turns validator errors into a field -> message map.
// messages overrides the generic text per field name.
func FormatValidationError(err error, messages map[string]string) map[string]string {
	errors := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors
	}

	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		if _, seen := errors[field]; seen {
			continue
		}
		if msg, ok := messages[field]; ok {
			errors[field] = msg
			continue
		}
		switch fieldError.Tag() {
		case "required":
			errors[field] = fmt.Sprintf("%s is required", field)
		case "gt", "gte", "min":
			errors[field] = fmt.Sprintf("%s must be at least %s", field, fieldError.Param())
		default:
			errors[field] = fmt.Sprintf("%s is invalid", field)
		}
	}

	return errors
}
