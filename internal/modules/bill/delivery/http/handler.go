package handler

import (
	"net/http"

	"anoa.com/municipalservices/internal/modules/bill/dto"
	bill "anoa.com/municipalservices/internal/modules/bill/service"
	"anoa.com/municipalservices/pkg/response"
	"anoa.com/municipalservices/pkg/validator"
	"github.com/gin-gonic/gin"
)

type BillHandler struct {
	service bill.BillService
}

func NewBillHandler(service bill.BillService) *BillHandler {
	return &BillHandler{service: service}
}

func (h *BillHandler) CreateBill(c *gin.Context) {
	var req dto.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.CreateBill(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *BillHandler) ViewBills(c *gin.Context) {
	claims, err := response.GetClaims(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	bills, err := h.service.ViewBills(c.Request.Context(), claims)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, bills)
}

func (h *BillHandler) GetBill(c *gin.Context) {
	id, ok := response.ParamID(c, "bill_id")
	if !ok {
		return
	}

	claims, err := response.GetClaims(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.GetBill(c.Request.Context(), claims, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *BillHandler) UpdateBill(c *gin.Context) {
	id, ok := response.ParamID(c, "bill_id")
	if !ok {
		return
	}

	var req dto.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.UpdateBill(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *BillHandler) DeleteBill(c *gin.Context) {
	id, ok := response.ParamID(c, "bill_id")
	if !ok {
		return
	}

	if err := h.service.DeleteBill(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "bill deleted successfully"})
}
