package service

import (
	"anoa.com/municipalservices/pkg/apperror"
	"github.com/shopspring/decimal"
)

// resolveAmount applies the billing rule: metered bills on a rated utility are
// charged units x rate, anything else takes the amount supplied by the client.
func resolveAmount(units *decimal.Decimal, amount *decimal.Decimal, rate decimal.NullDecimal) (decimal.Decimal, error) {
	if units != nil && units.IsNegative() {
		return decimal.Zero, apperror.BadRequest("units must not be negative")
	}
	if units != nil && rate.Valid {
		return units.Mul(rate.Decimal).Round(2), nil
	}
	if amount == nil {
		return decimal.Zero, apperror.BadRequest("amount is required")
	}
	if amount.IsNegative() {
		return decimal.Zero, apperror.BadRequest("amount must not be negative")
	}
	return *amount, nil
}
