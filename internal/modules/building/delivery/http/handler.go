package handler

import (
	"net/http"

	"anoa.com/municipalservices/internal/modules/building/dto"
	building "anoa.com/municipalservices/internal/modules/building/service"
	"anoa.com/municipalservices/pkg/response"
	"anoa.com/municipalservices/pkg/validator"
	"github.com/gin-gonic/gin"
)

type BuildingHandler struct {
	service building.BuildingService
}

func NewBuildingHandler(service building.BuildingService) *BuildingHandler {
	return &BuildingHandler{service: service}
}

func (h *BuildingHandler) CreateBuilding(c *gin.Context) {
	var req dto.CreateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.CreateBuilding(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *BuildingHandler) ListBuildings(c *gin.Context) {
	var filter dto.BuildingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ResponseError(c, err)
		return
	}

	buildings, err := h.service.ListBuildings(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildings)
}

func (h *BuildingHandler) ListBuildingTypes(c *gin.Context) {
	types, err := h.service.ListBuildingTypes(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, types)
}

func (h *BuildingHandler) GetBuilding(c *gin.Context) {
	id, ok := response.ParamID(c, "building_id")
	if !ok {
		return
	}

	b, err := h.service.GetBuilding(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *BuildingHandler) DeleteBuilding(c *gin.Context) {
	id, ok := response.ParamID(c, "building_id")
	if !ok {
		return
	}

	if err := h.service.DeleteBuilding(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "building deleted successfully"})
}
