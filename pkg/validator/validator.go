package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()
	// Report json field names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", notBlank)
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// notBlank rejects strings made only of whitespace
func notBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(f.String()) != ""
}

// FieldErrors flattens validation errors into field names and messages
func FieldErrors(err error) (fields, messages []string) {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, []string{err.Error()}
	}
	for _, fe := range verrs {
		fields = append(fields, fe.Namespace())
		messages = append(messages, message(fe))
	}
	return fields, messages
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "oneof":
		return fe.Field() + " must be one of " + fe.Param()
	case "datetime":
		return fe.Field() + " must match " + fe.Param()
	case "min":
		return fe.Field() + " must have at least " + fe.Param() + " entries"
	default:
		return fe.Field() + " is invalid"
	}
}
