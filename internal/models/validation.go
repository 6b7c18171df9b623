package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a single rejected form field.
type ValidationError struct {
	Field   string
	Label   string
	Value   string
	Message string
}

func NewValidationError(spec FeatureSpec, value, message string) *ValidationError {
	return &ValidationError{
		Field:   spec.Key,
		Label:   spec.Label,
		Value:   value,
		Message: message,
	}
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Label, ve.Message)
}

// ValidationErrors collects every rejected field of one submission, in form order.
type ValidationErrors []*ValidationError

func (ve ValidationErrors) Error() string {
	lines := make([]string, len(ve))
	for i, e := range ve {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// Fields returns the keys of the rejected fields.
func (ve ValidationErrors) Fields() []string {
	out := make([]string, len(ve))
	for i, e := range ve {
		out[i] = e.Field
	}
	return out
}

func (ve ValidationErrors) Unwrap() []error {
	out := make([]error, len(ve))
	for i, e := range ve {
		out[i] = e
	}
	return out
}

// ParseFeatureVector validates raw form input and converts it into a
// FeatureVector. Binary fields accept an option label or its numeric value.
func ParseFeatureVector(raw map[string]string) (FeatureVector, error) {
	vec := make(FeatureVector, len(featureSchema))
	var errs ValidationErrors

	for i, spec := range featureSchema {
		value, err := ParseFeature(spec, raw[spec.Key])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		vec[i] = value
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return vec, nil
}

// ParseFeature validates a single field.
func ParseFeature(spec FeatureSpec, raw string) (float64, *ValidationError) {
	s := strings.TrimSpace(raw)
	if err := fieldValidator.Var(s, "required"); err != nil {
		return 0, toValidationError(spec, raw, err)
	}

	if spec.Kind == Binary {
		return parseOption(spec, s)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, NewValidationError(spec, raw, "must be a number")
	}
	if err := fieldValidator.Var(v, spec.Rules()); err != nil {
		return 0, toValidationError(spec, raw, err)
	}
	return v, nil
}

// parseOption maps a label or numeric value onto the option's canonical value
// before checking it against the allowed set.
func parseOption(spec FeatureSpec, s string) (float64, *ValidationError) {
	canonical := s
	for _, opt := range spec.Options {
		if strings.EqualFold(opt.Label, s) {
			canonical = formatNumber(opt.Value)
			break
		}
	}
	if v, err := strconv.ParseFloat(canonical, 64); err == nil {
		canonical = formatNumber(v)
	}

	if err := fieldValidator.Var(canonical, spec.Rules()); err != nil {
		return 0, toValidationError(spec, s, err)
	}
	v, _ := strconv.ParseFloat(canonical, 64)
	return v, nil
}

// Validate checks an already-numeric vector, e.g. one read back from storage.
func (v FeatureVector) Validate() error {
	if len(v) != len(featureSchema) {
		return fmt.Errorf("feature vector has %d values, want %d", len(v), len(featureSchema))
	}
	var errs ValidationErrors
	for i, spec := range featureSchema {
		if _, err := ParseFeature(spec, formatNumber(v[i])); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
