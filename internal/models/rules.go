package models

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var fieldValidator = newFieldValidator()

func newFieldValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "finite", func(fl validator.FieldLevel) bool {
		f, ok := floatField(fl)
		return ok && !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	mustRegister(v, "whole", func(fl validator.FieldLevel) bool {
		f, ok := floatField(fl)
		return ok && f == math.Trunc(f)
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func floatField(fl validator.FieldLevel) (float64, bool) {
	field := fl.Field()
	if field.Kind() != reflect.Float64 && field.Kind() != reflect.Float32 {
		return 0, false
	}
	return field.Float(), true
}

// Rules returns the validator tag applied to a parsed value of this feature:
// a range for numeric fields, the allowed option values for binary ones.
func (fs FeatureSpec) Rules() string {
	if fs.Kind == Binary {
		values := make([]string, len(fs.Options))
		for i, opt := range fs.Options {
			values[i] = formatNumber(opt.Value)
		}
		return "oneof=" + strings.Join(values, " ")
	}

	rules := []string{"finite"}
	if fs.Range.Integer {
		rules = append(rules, "whole")
	}
	rules = append(rules,
		"gte="+formatNumber(fs.Range.Min),
		"lte="+formatNumber(fs.Range.Max),
	)
	return strings.Join(rules, ",")
}

// toValidationError turns the first failed rule into the message shown under
// the form field.
func toValidationError(spec FeatureSpec, raw string, err error) *ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidationError(spec, raw, err.Error())
	}

	switch fieldErrs[0].Tag() {
	case "required":
		return NewValidationError(spec, raw, "is required")
	case "finite":
		return NewValidationError(spec, raw, "must be a number")
	case "whole":
		return NewValidationError(spec, raw, "must be a whole number")
	case "gte", "lte":
		return NewValidationError(spec, raw, fmt.Sprintf("must be between %s and %s",
			formatNumber(spec.Range.Min), formatNumber(spec.Range.Max)))
	case "oneof":
		return NewValidationError(spec, raw, "must be one of "+strings.Join(spec.OptionLabels(), ", "))
	default:
		return NewValidationError(spec, raw, fieldErrs[0].Error())
	}
}
