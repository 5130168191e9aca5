package handler

import (
	"net/http"

	"anoa.com/municipalservices/internal/modules/utility/dto"
	utility "anoa.com/municipalservices/internal/modules/utility/service"
	"anoa.com/municipalservices/pkg/response"
	"github.com/gin-gonic/gin"
)

type UtilityHandler struct {
	service utility.UtilityService
}

func NewUtilityHandler(service utility.UtilityService) *UtilityHandler {
	return &UtilityHandler{service: service}
}

func (h *UtilityHandler) ListUtilities(c *gin.Context) {
	utilities, err := h.service.ListUtilities(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, utilities)
}

func (h *UtilityHandler) ListUtilityTypes(c *gin.Context) {
	types, err := h.service.ListUtilityTypes(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, types)
}

func (h *UtilityHandler) UpdateUtility(c *gin.Context) {
	id, ok := response.ParamID(c, "utility_id")
	if !ok {
		return
	}

	var req dto.UpdateUtilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := h.service.UpdateUtility(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}
