package service

import (
	"net/http"
	"testing"

	"anoa.com/municipalservices/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestResolveAmount(t *testing.T) {
	rated := decimal.NewNullDecimal(decimal.RequireFromString("0.35"))
	unrated := decimal.NullDecimal{}

	tests := []struct {
		name   string
		units  *decimal.Decimal
		amount *decimal.Decimal
		rate   decimal.NullDecimal
		want   string
		status int
	}{
		{name: "metered on rated utility", units: dec("120"), rate: rated, want: "42"},
		{name: "rate wins over client amount", units: dec("10"), amount: dec("999"), rate: rated, want: "3.5"},
		{name: "rounded to cents", units: dec("3.333"), rate: rated, want: "1.17"},
		{name: "unrated takes client amount", units: dec("10"), amount: dec("55.10"), rate: unrated, want: "55.1"},
		{name: "flat fee", amount: dec("20"), rate: rated, want: "20"},
		{name: "nothing to price", units: dec("10"), rate: unrated, status: http.StatusBadRequest},
		{name: "negative units", units: dec("-1"), rate: rated, status: http.StatusBadRequest},
		{name: "negative amount", amount: dec("-5"), rate: unrated, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveAmount(tt.units, tt.amount, tt.rate)
			if tt.status != 0 {
				assert.Equal(t, tt.status, apperror.MapErrorToStatus(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}
