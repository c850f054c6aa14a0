package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"food-marketplace/market-svc/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if len(value) != 5 {
			return false
		}
		_, err := domain.ParseClock(value)
		return err == nil
	})
	return v
}

// Validate checks req against its struct tags and reports the first failure
// as a ValidationError.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return invalid("", err.Error())
	}

	fe := fieldErrs[0]
	field := fe.Field()
	if ns := fe.Namespace(); strings.Contains(ns, ".") {
		field = ns[strings.Index(ns, ".")+1:]
	}
	return invalid(field, describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("must be %s %s", map[string]string{"gt": "greater than", "gte": "at least"}[fe.Tag()], fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "clock":
		return "must be a time in HH:MM format"
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// checkMoney rejects negative amounts and sub-cent precision.
func checkMoney(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return invalid(field, "must not be negative")
	}
	if !d.Equal(d.Round(2)) {
		return invalid(field, "must have at most two decimal places")
	}
	return nil
}
