package validation

import (
	"net/http"
	"strings"
	"time"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/glpi-dashboard/internal/core/errors"
)

// Validator validates request data
type Validator struct {
	errors *apperrors.ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: apperrors.NewValidationErrors(),
	}
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

// Errors returns the validation errors
func (v *Validator) Errors() *apperrors.ValidationErrors {
	return v.errors
}

// Date validates an optional YYYY-MM-DD value
func (v *Validator) Date(field, value string) *Validator {
	if value == "" {
		return v
	}
	if _, err := time.Parse(domain.DateLayout, value); err != nil {
		v.errors.Add(field, "Must be a date in YYYY-MM-DD format")
	}
	return v
}

// DateOrder validates that start does not come after end. Unparseable or
// empty values are left to Date.
func (v *Validator) DateOrder(field, start, end string) *Validator {
	s, errS := time.Parse(domain.DateLayout, start)
	e, errE := time.Parse(domain.DateLayout, end)
	if errS == nil && errE == nil && s.After(e) {
		v.errors.Add(field, "Start date must not be after end date")
	}
	return v
}

// Custom adds a custom validation
func (v *Validator) Custom(field string, valid bool, message string) *Validator {
	if !valid {
		v.errors.Add(field, message)
	}
	return v
}

// DateRange holds the start and end query parameters of a dashboard request.
type DateRange struct {
	Start string
	End   string
}

// ParseDateRange extracts start and end from the query string and validates
// them. Missing bounds are returned empty so the caller applies its defaults.
func ParseDateRange(r *http.Request) (DateRange, error) {
	q := r.URL.Query()
	dr := DateRange{
		Start: strings.TrimSpace(q.Get("start")),
		End:   strings.TrimSpace(q.Get("end")),
	}

	v := NewValidator().
		Date("start", dr.Start).
		Date("end", dr.End).
		DateOrder("start", dr.Start, dr.End)
	if v.HasErrors() {
		return DateRange{}, v.Errors()
	}
	return dr, nil
}
