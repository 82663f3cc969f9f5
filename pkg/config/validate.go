package config

import (
	"fmt"
	"strings"
	"time"
)

// Validator collects configuration violations so a bad config reports every
// problem at once instead of failing on the first.
type Validator struct {
	scope  string
	errors []string
}

// NewValidator creates a validator for the named scope.
func NewValidator(scope string) *Validator {
	return &Validator{scope: scope}
}

// Required records a violation when value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errors = append(v.errors, fmt.Sprintf("%s: required", field))
	}
	return v
}

// PositiveInt records a violation when value is not strictly positive.
func (v *Validator) PositiveInt(field string, value int) *Validator {
	if value <= 0 {
		v.errors = append(v.errors, fmt.Sprintf("%s: must be positive, got %d", field, value))
	}
	return v
}

// PositiveFloat records a violation when value is not strictly positive.
func (v *Validator) PositiveFloat(field string, value float64) *Validator {
	if value <= 0 {
		v.errors = append(v.errors, fmt.Sprintf("%s: must be positive, got %g", field, value))
	}
	return v
}

// PositiveDuration records a violation when value is not strictly positive.
func (v *Validator) PositiveDuration(field string, value time.Duration) *Validator {
	if value <= 0 {
		v.errors = append(v.errors, fmt.Sprintf("%s: must be positive, got %s", field, value))
	}
	return v
}

// RangeInt records a violation when value falls outside [min, max].
func (v *Validator) RangeInt(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.errors = append(v.errors, fmt.Sprintf("%s: must be in [%d, %d], got %d", field, min, max, value))
	}
	return v
}

// Err returns nil when no violations were recorded, or a single error
// listing all of them.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}
	return fmt.Errorf("%s validation failed: %s", v.scope, strings.Join(v.errors, "; "))
}
