package dto

import "time"

// DateLayout is the wire format of every calendar date the API accepts.
const DateLayout = "2006-01-02"

type CreateCitizenRequest struct {
	FullName    string `json:"full_name" binding:"required,notblank,max=150"`
	Phone       string `json:"phone" binding:"max=20"`
	Gender      string `json:"gender" binding:"max=10"`
	DateOfBirth string `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
}

type UpdateCitizenRequest struct {
	FullName    *string `json:"full_name" binding:"omitempty,notblank,max=150"`
	Phone       *string `json:"phone" binding:"omitempty,max=20"`
	Gender      *string `json:"gender" binding:"omitempty,max=10"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
}

func (r UpdateCitizenRequest) Empty() bool {
	return r.FullName == nil && r.Phone == nil && r.Gender == nil && r.DateOfBirth == nil
}

type CreateLoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"omitempty,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=ADMIN CITIZEN"`
}

type CitizenFilter struct {
	Search string `form:"search"`
}

type LoginSummary struct {
	LoginID uint   `json:"login_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

type CitizenResponse struct {
	CitizenID   uint          `json:"citizen_id"`
	FullName    string        `json:"full_name"`
	Phone       string        `json:"phone"`
	Gender      string        `json:"gender"`
	DateOfBirth string        `json:"date_of_birth"`
	CreatedAt   time.Time     `json:"created_at"`
	Login       *LoginSummary `json:"login"`
}
