package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"anoa.com/municipalservices/internal/middleware"
	"anoa.com/municipalservices/internal/modules/auth/dto"
	auth "anoa.com/municipalservices/internal/modules/auth/service"
	"anoa.com/municipalservices/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthService struct {
	changedFor string
}

func (s *stubAuthService) Login(_ context.Context, input dto.LoginInput) (*dto.LoginResult, error) {
	if input.Password != "03051990" {
		return nil, auth.ErrIncorrectPassword
	}
	return &dto.LoginResult{Role: token.RoleCitizen, Token: "signed", ExpiresAt: time.Now().Add(7 * 24 * time.Hour)}, nil
}

func (s *stubAuthService) ChangePassword(_ context.Context, _ *token.Claims, email, _ string) error {
	s.changedFor = email
	return nil
}

func (s *stubAuthService) GetProfile(_ context.Context, caller *token.Claims) (*dto.ProfileResponse, error) {
	return &dto.ProfileResponse{Email: caller.Email, Role: caller.Role, Addresses: []dto.ProfileAddress{}}, nil
}

func newRouter(svc auth.AuthService) *gin.Engine {
	h := NewAuthHandler(svc, false)
	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.PATCH("/auth/change-password/:email", func(c *gin.Context) {
		c.Set("claims", &token.Claims{Email: "first@city.gov", Role: token.RoleCitizen})
		h.ChangePassword(c)
	})
	return r
}

func TestLoginSetsSessionCookie(t *testing.T) {
	r := newRouter(&stubAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"first@city.gov","password":"03051990"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"CITIZEN"}`, w.Body.String())

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.Equal(t, "signed", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.InDelta(t, 7*24*3600, cookies[0].MaxAge, 5)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	r := newRouter(&stubAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"first@city.gov","password":"1990-05-03"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"incorrect password"}`, w.Body.String())
	assert.Empty(t, w.Result().Cookies())
}

func TestLoginValidatesBody(t *testing.T) {
	r := newRouter(&stubAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	r := newRouter(&stubAuthService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestChangePasswordUsesPathEmail(t *testing.T) {
	svc := &stubAuthService{}
	r := newRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/auth/change-password/first@city.gov", strings.NewReader(`{"password":"brand-new"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "first@city.gov", svc.changedFor)
}
