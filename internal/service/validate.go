package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"booking-api/internal/slot"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slot", func(fl validator.FieldLevel) bool {
		return slot.IsGridTime(fl.Field().String())
	})
	return v
}

// checkStruct validates s and converts failures into an InvalidArgument error.
func checkStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	vs := make([]Violation, 0, len(ves))
	for _, fe := range ves {
		vs = append(vs, Violation{Field: fe.Field(), Message: message(fe)})
	}
	return invalid(vs...)
}

// checkVar validates a single value against tag, naming it field on failure.
func checkVar(field string, value any, tag string) *Violation {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		return &Violation{Field: field, Message: message(ves[0])}
	}
	return &Violation{Field: field, Message: "is invalid"}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "datetime":
		if fe.Param() == dateLayout {
			return "must be a date formatted YYYY-MM-DD"
		}
		return "must be a time formatted HH:MM"
	case "slot":
		return "must be one of " + strings.Join(slot.Grid(), ", ")
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "is invalid"
}
