package handler

import (
	"net/http"
	"time"

	"anoa.com/municipalservices/internal/middleware"
	"anoa.com/municipalservices/internal/modules/auth/dto"
	auth "anoa.com/municipalservices/internal/modules/auth/service"
	"anoa.com/municipalservices/pkg/response"
	"anoa.com/municipalservices/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service      auth.AuthService
	cookieSecure bool
}

func NewAuthHandler(service auth.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{service: service, cookieSecure: cookieSecure}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	maxAge := int(time.Until(res.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, res.Token, maxAge, "/", "", h.cookieSecure, true)

	c.JSON(http.StatusOK, dto.LoginResponse{Role: res.Role})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims, err := response.GetClaims(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), claims)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var input dto.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	claims, err := response.GetClaims(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), claims, c.Param("email"), input.Password); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
