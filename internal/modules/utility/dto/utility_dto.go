package dto

import "github.com/shopspring/decimal"

type UpdateUtilityRequest struct {
	ChargePerUnit *decimal.Decimal `json:"charge_per_unit"`
	DeptID        *uint            `json:"dept_id"`
}

func (r UpdateUtilityRequest) Empty() bool {
	return r.ChargePerUnit == nil && r.DeptID == nil
}
