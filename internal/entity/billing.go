package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BillStatusPending = "PENDING"
	BillStatusPaid    = "PAID"
	BillStatusOverdue = "OVERDUE"
)

func ValidBillStatus(status string) bool {
	switch status {
	case BillStatusPending, BillStatusPaid, BillStatusOverdue:
		return true
	}
	return false
}

type Department struct {
	ID   uint   `gorm:"primaryKey" json:"dept_id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

type Utility struct {
	ID            uint                `gorm:"primaryKey" json:"utility_id"`
	Type          string              `gorm:"size:50;uniqueIndex;not null" json:"type"`
	ChargePerUnit decimal.NullDecimal `gorm:"type:numeric(12,4)" json:"charge_per_unit"`
	DeptID        *uint               `json:"dept_id"`
	Department    *Department         `gorm:"foreignKey:DeptID;constraint:OnDelete:SET NULL" json:"department,omitempty"`
}

type Bill struct {
	ID        uint                `gorm:"primaryKey" json:"bill_id"`
	AddressID uint                `gorm:"not null;index" json:"address_id"`
	UtilityID *uint               `gorm:"index" json:"utility_id"`
	Utility   *Utility            `gorm:"constraint:OnDelete:SET NULL" json:"utility,omitempty"`
	Units     decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"units"`
	Amount    decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"amount"`
	DueDate   time.Time           `gorm:"type:date;not null" json:"due_date"`
	Status    string              `gorm:"size:20;not null;default:PENDING" json:"status"`
	CreatedAt time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	Address *Address `json:"-"`
}

// BillType returns the utility label, or an empty string when the utility was removed.
func (b *Bill) BillType() string {
	if b.Utility == nil {
		return ""
	}
	return b.Utility.Type
}
