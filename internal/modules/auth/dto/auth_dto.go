package dto

import "time"

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordInput struct {
	Password string `json:"password" binding:"required,min=6"`
}

// LoginResult is what the handler needs to answer a successful login.
type LoginResult struct {
	Role      string
	Token     string
	ExpiresAt time.Time
}

type LoginResponse struct {
	Role string `json:"role"`
}

// ProfileAddress is one occupancy of the caller, flattened with its address and building.
type ProfileAddress struct {
	AddressID    uint       `json:"address_id"`
	FlatNo       string     `json:"flat_no"`
	BuildingID   uint       `json:"building_id"`
	BuildingName string     `json:"building_name"`
	Street       string     `json:"street"`
	Zone         string     `json:"zone"`
	Pincode      string     `json:"pincode"`
	Role         string     `json:"role"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}

type ProfileResponse struct {
	CitizenID   uint             `json:"citizen_id"`
	LoginID     uint             `json:"login_id"`
	FullName    string           `json:"full_name"`
	Phone       string           `json:"phone"`
	Gender      string           `json:"gender"`
	DateOfBirth time.Time        `json:"date_of_birth"`
	Email       string           `json:"email"`
	Role        string           `json:"role"`
	Addresses   []ProfileAddress `json:"addresses"`
}
