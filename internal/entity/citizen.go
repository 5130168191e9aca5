package entity

import "time"

const (
	RoleAdmin   = "ADMIN"
	RoleCitizen = "CITIZEN"
)

type Citizen struct {
	ID          uint      `gorm:"primaryKey" json:"citizen_id"`
	FullName    string    `gorm:"size:150;not null" json:"full_name"`
	Phone       string    `gorm:"size:20" json:"phone"`
	Gender      string    `gorm:"size:10" json:"gender"`
	DateOfBirth time.Time `gorm:"type:date;not null" json:"date_of_birth"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Login     *Login           `gorm:"constraint:OnDelete:CASCADE" json:"login,omitempty"`
	Addresses []CitizenAddress `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Requests  []Request        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Login is the 1:1 credential row for a citizen. A nil PasswordHash means the
// citizen has never set a password and authenticates with their date of birth.
type Login struct {
	ID           uint      `gorm:"primaryKey" json:"login_id"`
	CitizenID    uint      `gorm:"uniqueIndex;not null" json:"citizen_id"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash *string   `gorm:"size:255" json:"-"`
	Role         string    `gorm:"size:20;not null;default:CITIZEN" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Citizen       *Citizen       `json:"-"`
	Notifications []Notification `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (l *Login) IsAdmin() bool {
	return l.Role == RoleAdmin
}
