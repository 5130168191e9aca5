package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/municipalservices/pkg/response"
	"anoa.com/municipalservices/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, roles ...string) (*gin.Engine, *token.JWTMaker) {
	t.Helper()
	maker, err := token.NewJWTMaker(testSecret, "test")
	require.NoError(t, err)

	auth := NewAuthMiddleware(maker)
	r := gin.New()
	handlers := []gin.HandlerFunc{auth.RequireAuth()}
	if len(roles) > 0 {
		handlers = append(handlers, auth.RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		claims, err := response.GetClaims(c)
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"email": claims.Email})
	})
	r.GET("/protected", handlers...)
	return r, maker
}

func TestRequireAuthMissingToken(t *testing.T) {
	r, _ := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, w.Body.String())
}

func TestRequireAuthInvalidToken(t *testing.T) {
	r, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	r, _ := newRouter(t)

	claims := &token.Claims{
		Email: "old@city.gov",
		Role:  token.RoleCitizen,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signed})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"session expired"}`, w.Body.String())
}

func TestRequireAuthCookieAndBearer(t *testing.T) {
	r, maker := newRouter(t)
	signed, _, err := maker.CreateToken("resident@city.gov", token.RoleCitizen, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signed})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleForbidsCitizen(t *testing.T) {
	r, maker := newRouter(t, token.RoleAdmin)
	signed, _, err := maker.CreateToken("resident@city.gov", token.RoleCitizen, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signed})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"forbidden"}`, w.Body.String())
}

func TestRequireRoleWithoutClaims(t *testing.T) {
	maker, err := token.NewJWTMaker(testSecret, "test")
	require.NoError(t, err)
	auth := NewAuthMiddleware(maker)

	r := gin.New()
	r.GET("/admin", auth.RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
