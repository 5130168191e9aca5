package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type NotificationResponse struct {
	NotificationID uint      `json:"notification_id"`
	Type           string    `json:"type"`
	TypeID         uint      `json:"type_id"`
	CreatedAt      time.Time `json:"created_at"`
	// Details is a BillDetails, a RequestDetails, or an empty object when the
	// target has since been deleted.
	Details interface{} `json:"details"`
}

type BillDetails struct {
	BillID   uint            `json:"bill_id"`
	BillType string          `json:"bill_type"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  string          `json:"due_date"`
	Status   string          `json:"status"`
	Address  string          `json:"address"`
}

type RequestDetails struct {
	RequestID   uint      `json:"request_id"`
	ServiceType string    `json:"service_type"`
	Details     string    `json:"details"`
	Status      string    `json:"status"`
	Comment     *string   `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BillRow is a bill joined with its utility label and address fields.
type BillRow struct {
	BillID       uint
	BillType     *string
	Amount       decimal.Decimal
	DueDate      time.Time
	Status       string
	FlatNo       string
	BuildingName string
	Street       string
}
