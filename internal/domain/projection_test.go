package domain

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectionMode_JSONCarriesOnlyItsField(t *testing.T) {
	target := time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		mode    ProjectionMode
		present string
		absent  string
	}{
		{"fixed date", FixedDate(target), "targetDate", "monthlyAmount"},
		{"fixed payment", FixedPayment(decimal.RequireFromString("142.60")), "monthlyAmount", "targetDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.mode)
			require.NoError(t, err)

			var fields map[string]any
			require.NoError(t, json.Unmarshal(data, &fields))
			assert.Equal(t, string(tt.mode.Kind), fields["kind"])
			assert.Contains(t, fields, tt.present)
			assert.NotContains(t, fields, tt.absent)

			var back ProjectionMode
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.mode.Kind, back.Kind)
			assert.True(t, tt.mode.TargetDate.Equal(back.TargetDate))
			assert.True(t, tt.mode.MonthlyAmount.Equal(back.MonthlyAmount))
			assert.Equal(t, tt.mode.Key(), back.Key())
		})
	}
}

func TestProjectionMode_JSONInsideStruct(t *testing.T) {
	wrapper := struct {
		Mode ProjectionMode `json:"mode"`
	}{Mode: FixedPayment(decimal.NewFromInt(150))}

	data, err := json.Marshal(wrapper)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "targetDate")
	assert.NotContains(t, string(data), "0001-01-01")
}
