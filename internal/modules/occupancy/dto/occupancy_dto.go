package dto

import "time"

type LinkCitizenRequest struct {
	CitizenID uint    `json:"citizen_id" binding:"required"`
	Role      string  `json:"role" binding:"required,notblank,max=30"`
	StartDate *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateOccupancyRequest struct {
	Role         *string `json:"role" binding:"omitempty,notblank,max=30"`
	StartDate    *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	// ClearEndDate sets end_date back to null, marking the occupancy as ongoing.
	ClearEndDate bool    `json:"clear_end_date"`
}

func (r UpdateOccupancyRequest) Empty() bool {
	return r.Role == nil && r.StartDate == nil && r.EndDate == nil && !r.ClearEndDate
}

type OccupantView struct {
	CitizenID uint       `json:"citizen_id"`
	AddressID uint       `json:"address_id"`
	FullName  string     `json:"full_name"`
	Phone     string     `json:"phone"`
	Role      string     `json:"role"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}
