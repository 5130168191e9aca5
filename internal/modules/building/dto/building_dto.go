package dto

import "anoa.com/municipalservices/internal/entity"

type CreateBuildingRequest struct {
	BuildingName string `json:"building_name" binding:"required,notblank,max=150"`
	Street       string `json:"street" binding:"max=200"`
	Zone         string `json:"zone" binding:"max=50"`
	Pincode      string `json:"pincode" binding:"max=20"`
	TypeID       uint   `json:"type_id" binding:"required"`
}

type BuildingFilter struct {
	Type string `form:"type"`
}

// CreateBuildingResponse carries the building and the DEFAULT address created with it.
type CreateBuildingResponse struct {
	Building *entity.Building `json:"building"`
	Address  *entity.Address  `json:"address"`
}
