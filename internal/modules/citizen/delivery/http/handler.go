package handler

import (
	"net/http"

	"anoa.com/municipalservices/internal/modules/citizen/dto"
	citizen "anoa.com/municipalservices/internal/modules/citizen/service"
	"anoa.com/municipalservices/pkg/response"
	"anoa.com/municipalservices/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CitizenHandler struct {
	service citizen.CitizenService
}

func NewCitizenHandler(service citizen.CitizenService) *CitizenHandler {
	return &CitizenHandler{service: service}
}

func (h *CitizenHandler) CreateCitizen(c *gin.Context) {
	var req dto.CreateCitizenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.CreateCitizen(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *CitizenHandler) ListCitizens(c *gin.Context) {
	var filter dto.CitizenFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.ListCitizens(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *CitizenHandler) SearchCitizens(c *gin.Context) {
	res, err := h.service.SearchCitizens(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *CitizenHandler) GetCitizen(c *gin.Context) {
	id, ok := response.ParamID(c, "citizen_id")
	if !ok {
		return
	}

	res, err := h.service.GetCitizen(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *CitizenHandler) UpdateCitizen(c *gin.Context) {
	id, ok := response.ParamID(c, "citizen_id")
	if !ok {
		return
	}

	var req dto.UpdateCitizenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.UpdateCitizen(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *CitizenHandler) DeleteCitizen(c *gin.Context) {
	id, ok := response.ParamID(c, "citizen_id")
	if !ok {
		return
	}

	if err := h.service.DeleteCitizen(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "citizen deleted successfully"})
}

func (h *CitizenHandler) CreateLogin(c *gin.Context) {
	id, ok := response.ParamID(c, "citizen_id")
	if !ok {
		return
	}

	var req dto.CreateLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.CreateLogin(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *CitizenHandler) DeleteLogin(c *gin.Context) {
	id, ok := response.ParamID(c, "citizen_id")
	if !ok {
		return
	}

	if err := h.service.DeleteLogin(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "login deleted successfully"})
}
