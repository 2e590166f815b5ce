package views

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// newValidator returns a validator that reports JSON field names and understands
// decimal.Decimal for numeric comparisons.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// validationMessage returns a human-readable message for the first failed field.
func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "Invalid value"
	}
	e := errs[0]
	switch e.Tag() {
	case "required":
		return e.Field() + ": This field is required"
	case "min":
		return e.Field() + ": Must be at least " + e.Param()
	case "gte":
		return e.Field() + ": Must be greater than or equal to " + e.Param()
	default:
		return e.Field() + ": Invalid value"
	}
}
