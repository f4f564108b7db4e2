package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	// Report json names so messages match the request payload.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Decimals are validated through their string form.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	validate.RegisterValidation("dgt0", func(fl validator.FieldLevel) bool {
		d, ok := decimalOf(fl.Field())
		return ok && d.IsPositive()
	})
	validate.RegisterValidation("dgte0", func(fl validator.FieldLevel) bool {
		d, ok := decimalOf(fl.Field())
		return ok && !d.IsNegative()
	})
	validate.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		d, ok := decimalOf(fl.Field())
		return ok && d.Equal(d.Truncate(2))
	})
}

func decimalOf(v reflect.Value) (decimal.Decimal, bool) {
	if v.Kind() == reflect.String {
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	}
	switch d := v.Interface().(type) {
	case decimal.Decimal:
		return d, true
	case *decimal.Decimal:
		if d == nil {
			return decimal.Zero, false
		}
		return *d, true
	}
	return decimal.Zero, false
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
		}
		for _, err := range verrs {
			var element ErrorResponse
			element.FailedField = err.Field()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// Messages validates data and returns one readable sentence per failed rule.
func Messages(data interface{}) []string {
	errs := ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Message())
	}
	return out
}

func (e *ErrorResponse) Message() string {
	field := capitalize(e.FailedField)
	switch e.Tag {
	case "required":
		return field + " is required"
	case "email":
		return "Invalid email format"
	case "gt", "dgt0":
		if e.Value == "" || e.Value == "0" {
			return field + " must be greater than zero"
		}
		return fmt.Sprintf("%s must be greater than %s", field, e.Value)
	case "gte", "dgte0":
		if e.Value == "" || e.Value == "0" {
			return field + " cannot be negative"
		}
		return fmt.Sprintf("%s must be at least %s", field, e.Value)
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s)", field, e.Value)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Value)
	case "money":
		return field + " must have at most 2 decimal places"
	case "invalid":
		return e.Value
	}
	return fmt.Sprintf("%s failed on '%s'", field, e.Tag)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
