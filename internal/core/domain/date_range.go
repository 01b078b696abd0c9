package domain

import (
	"time"

	apperrors "github.com/lorrc/glpi-dashboard/internal/core/errors"
)

// DateLayout is the ISO date format used for every date-range bound.
const DateLayout = "2006-01-02"

// DatePart returns the YYYY-MM-DD prefix of an ISO timestamp, or "" when the
// value does not start with a valid date.
func DatePart(ts string) string {
	if len(ts) < len(DateLayout) {
		return ""
	}
	day := ts[:len(DateLayout)]
	if _, err := time.Parse(DateLayout, day); err != nil {
		return ""
	}
	return day
}

// WithinDateRange reports whether the date portion of ts lies in
// [start, end]. Bounds are inclusive ISO date strings; an empty bound is
// open. A timestamp without a date portion is never inside the range.
func WithinDateRange(ts, start, end string) bool {
	day := DatePart(ts)
	if day == "" {
		return false
	}
	if start != "" && day < DatePart(start) {
		return false
	}
	if end != "" && day > DatePart(end) {
		return false
	}
	return true
}

// ValidateDateRange checks that non-empty bounds are ISO dates and that start
// does not come after end.
func ValidateDateRange(start, end string) error {
	var startDay, endDay time.Time
	var err error
	if start != "" {
		if startDay, err = time.Parse(DateLayout, start); err != nil {
			return apperrors.ErrInvalidDateRange
		}
	}
	if end != "" {
		if endDay, err = time.Parse(DateLayout, end); err != nil {
			return apperrors.ErrInvalidDateRange
		}
	}
	if start != "" && end != "" && startDay.After(endDay) {
		return apperrors.ErrInvalidDateRange
	}
	return nil
}
