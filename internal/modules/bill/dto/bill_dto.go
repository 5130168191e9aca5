package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateBillRequest struct {
	AddressID uint             `json:"address_id" binding:"required"`
	BillType  string           `json:"bill_type" binding:"required,notblank,max=50"`
	Units     *decimal.Decimal `json:"units"`
	Amount    *decimal.Decimal `json:"amount"`
	DueDate   string           `json:"due_date" binding:"required,datetime=2006-01-02"`
	Status    string           `json:"status" binding:"omitempty,oneof=PENDING PAID OVERDUE"`
}

type UpdateBillRequest struct {
	AddressID *uint            `json:"address_id"`
	BillType  *string          `json:"bill_type" binding:"omitempty,notblank,max=50"`
	Units     *decimal.Decimal `json:"units"`
	Amount    *decimal.Decimal `json:"amount"`
	DueDate   *string          `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Status    *string          `json:"status" binding:"omitempty,oneof=PENDING PAID OVERDUE"`
}

func (r UpdateBillRequest) Empty() bool {
	return r.AddressID == nil && r.BillType == nil && r.Units == nil &&
		r.Amount == nil && r.DueDate == nil && r.Status == nil
}

// BillView is a bill joined with its utility label and address.
type BillView struct {
	BillID       uint                `json:"bill_id"`
	AddressID    uint                `json:"address_id"`
	UtilityID    *uint               `json:"utility_id"`
	BillType     *string             `json:"bill_type"`
	Units        decimal.NullDecimal `json:"units"`
	Amount       decimal.Decimal     `json:"amount"`
	DueDate      time.Time           `json:"-"`
	DueDateText  string              `json:"due_date" gorm:"-"`
	Status       string              `json:"status"`
	FlatNo       string              `json:"flat_no"`
	BuildingID   uint                `json:"building_id"`
	BuildingName string              `json:"building_name"`
	Street       string              `json:"street"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}
