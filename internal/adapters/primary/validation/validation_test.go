package validation

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lorrc/glpi-dashboard/internal/core/errors"
)

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		want      DateRange
		badFields []string
	}{
		{name: "both bounds", query: "?start=2024-01-01&end=2024-01-31", want: DateRange{Start: "2024-01-01", End: "2024-01-31"}},
		{name: "no bounds", query: "", want: DateRange{}},
		{name: "trimmed", query: "?start=%202024-02-01%20", want: DateRange{Start: "2024-02-01"}},
		{name: "bad start", query: "?start=01/02/2024", badFields: []string{"start"}},
		{name: "bad both", query: "?start=x&end=y", badFields: []string{"start", "end"}},
		{name: "reversed", query: "?start=2024-02-01&end=2024-01-01", badFields: []string{"start"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateRange(httptest.NewRequest("GET", "/api/v1/summary"+tt.query, nil))
			if len(tt.badFields) == 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			var verrs *apperrors.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			for _, f := range tt.badFields {
				assert.Contains(t, verrs.Errors, f)
			}
			assert.Len(t, verrs.Errors, len(tt.badFields))
		})
	}
}

func TestValidator_Custom(t *testing.T) {
	v := NewValidator().Custom("x", true, "fine").Custom("y", false, "broken")
	assert.True(t, v.HasErrors())
	assert.Equal(t, []string{"broken"}, v.Errors().Errors["y"])
}
