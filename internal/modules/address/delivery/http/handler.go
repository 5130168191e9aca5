package handler

import (
	"net/http"

	"anoa.com/municipalservices/internal/modules/address/dto"
	address "anoa.com/municipalservices/internal/modules/address/service"
	"anoa.com/municipalservices/pkg/response"
	"anoa.com/municipalservices/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AddressHandler struct {
	service address.AddressService
}

func NewAddressHandler(service address.AddressService) *AddressHandler {
	return &AddressHandler{service: service}
}

func (h *AddressHandler) ListAllAddresses(c *gin.Context) {
	views, err := h.service.ListAllAddresses(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *AddressHandler) ListAddresses(c *gin.Context) {
	buildingID, ok := response.ParamID(c, "building_id")
	if !ok {
		return
	}

	addresses, err := h.service.ListAddresses(c.Request.Context(), buildingID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, addresses)
}

func (h *AddressHandler) GetAddress(c *gin.Context) {
	buildingID, ok := response.ParamID(c, "building_id")
	if !ok {
		return
	}
	addressID, ok := response.ParamID(c, "address_id")
	if !ok {
		return
	}

	a, err := h.service.GetAddress(c.Request.Context(), buildingID, addressID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

func (h *AddressHandler) AddAddress(c *gin.Context) {
	buildingID, ok := response.ParamID(c, "building_id")
	if !ok {
		return
	}

	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	a, err := h.service.AddAddress(c.Request.Context(), buildingID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

func (h *AddressHandler) UpsertAddress(c *gin.Context) {
	buildingID, ok := response.ParamID(c, "building_id")
	if !ok {
		return
	}
	addressID, ok := response.ParamID(c, "address_id")
	if !ok {
		return
	}

	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	a, created, err := h.service.UpsertAddress(c.Request.Context(), buildingID, addressID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, a)
}

func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	buildingID, ok := response.ParamID(c, "building_id")
	if !ok {
		return
	}
	addressID, ok := response.ParamID(c, "address_id")
	if !ok {
		return
	}

	if err := h.service.DeleteAddress(c.Request.Context(), buildingID, addressID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "address deleted successfully"})
}
