package handler

import (
	"net/http"

	"anoa.com/municipalservices/internal/modules/request/dto"
	request "anoa.com/municipalservices/internal/modules/request/service"
	"anoa.com/municipalservices/pkg/response"
	"anoa.com/municipalservices/pkg/validator"
	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	service request.RequestService
}

func NewRequestHandler(service request.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	claims, err := response.GetClaims(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	created, err := h.service.CreateRequest(c.Request.Context(), claims, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *RequestHandler) ListRequests(c *gin.Context) {
	claims, err := response.GetClaims(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	requests, err := h.service.ListRequests(c.Request.Context(), claims)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) ListByCitizen(c *gin.Context) {
	claims, err := response.GetClaims(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	citizenID, ok := response.ParamID(c, "citizen_id")
	if !ok {
		return
	}

	requests, err := h.service.ListByCitizen(c.Request.Context(), claims, citizenID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) GetRequest(c *gin.Context) {
	claims, err := response.GetClaims(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamID(c, "request_id")
	if !ok {
		return
	}

	found, err := h.service.GetRequest(c.Request.Context(), claims, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *RequestHandler) UpdateRequest(c *gin.Context) {
	claims, err := response.GetClaims(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamID(c, "request_id")
	if !ok {
		return
	}

	var req dto.UpdateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	updated, err := h.service.UpdateRequest(c.Request.Context(), claims, id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	claims, err := response.GetClaims(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamID(c, "request_id")
	if !ok {
		return
	}

	if err := h.service.DeleteRequest(c.Request.Context(), claims, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "request deleted successfully"})
}
