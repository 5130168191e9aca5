package entity

import "time"

const (
	RequestStatusPending  = "PENDING"
	RequestStatusApproved = "APPROVED"
	RequestStatusResolved = "RESOLVED"
	RequestStatusRejected = "REJECTED"
)

type Request struct {
	ID          uint      `gorm:"primaryKey" json:"request_id"`
	CitizenID   uint      `gorm:"not null;index" json:"citizen_id"`
	ServiceType string    `gorm:"size:100;not null" json:"service_type"`
	Details     string    `gorm:"type:text;not null" json:"details"`
	Status      string    `gorm:"size:20;not null;default:PENDING" json:"status"`
	Comment     *string   `gorm:"type:text" json:"comment"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Citizen *Citizen `json:"-"`
}

var requestTransitions = map[string][]string{
	RequestStatusPending:  {RequestStatusApproved, RequestStatusRejected},
	RequestStatusApproved: {RequestStatusResolved},
}

func ValidRequestStatus(status string) bool {
	switch status {
	case RequestStatusPending, RequestStatusApproved, RequestStatusResolved, RequestStatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether a request may move from one status to another.
// Re-applying the current status is allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range requestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
