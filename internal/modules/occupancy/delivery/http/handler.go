package handler

import (
	"net/http"

	"anoa.com/municipalservices/internal/modules/occupancy/dto"
	occupancy "anoa.com/municipalservices/internal/modules/occupancy/service"
	"anoa.com/municipalservices/pkg/response"
	"anoa.com/municipalservices/pkg/validator"
	"github.com/gin-gonic/gin"
)

type OccupancyHandler struct {
	service occupancy.OccupancyService
}

func NewOccupancyHandler(service occupancy.OccupancyService) *OccupancyHandler {
	return &OccupancyHandler{service: service}
}

func addressPath(c *gin.Context) (buildingID, addressID uint, ok bool) {
	if buildingID, ok = response.ParamID(c, "building_id"); !ok {
		return
	}
	addressID, ok = response.ParamID(c, "address_id")
	return
}

func (h *OccupancyHandler) ListOccupants(c *gin.Context) {
	buildingID, addressID, ok := addressPath(c)
	if !ok {
		return
	}

	occupants, err := h.service.ListOccupants(c.Request.Context(), buildingID, addressID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, occupants)
}

func (h *OccupancyHandler) LinkCitizen(c *gin.Context) {
	buildingID, addressID, ok := addressPath(c)
	if !ok {
		return
	}

	var req dto.LinkCitizenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	link, err := h.service.LinkCitizen(c.Request.Context(), buildingID, addressID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

func (h *OccupancyHandler) UpdateOccupancy(c *gin.Context) {
	buildingID, addressID, ok := addressPath(c)
	if !ok {
		return
	}
	citizenID, ok := response.ParamID(c, "citizen_id")
	if !ok {
		return
	}

	var req dto.UpdateOccupancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	link, err := h.service.UpdateOccupancy(c.Request.Context(), buildingID, addressID, citizenID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

func (h *OccupancyHandler) UnlinkCitizen(c *gin.Context) {
	buildingID, addressID, ok := addressPath(c)
	if !ok {
		return
	}
	citizenID, ok := response.ParamID(c, "citizen_id")
	if !ok {
		return
	}

	if err := h.service.UnlinkCitizen(c.Request.Context(), buildingID, addressID, citizenID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "citizen unlinked successfully"})
}
