package entity

import "time"

const (
	NotificationTypeBill    = "bill"
	NotificationTypeService = "service"
)

// Notification points at a Bill or a Request through TypeID depending on Type.
// Display fields are joined in at read time.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"notification_id"`
	LoginID   uint      `gorm:"not null;index" json:"login_id"`
	Type      string    `gorm:"size:20;not null" json:"type"`
	TypeID    uint      `gorm:"not null" json:"type_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
