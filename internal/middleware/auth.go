package middleware

import (
	"errors"
	"net/http"
	"strings"

	"anoa.com/municipalservices/pkg/response"
	"anoa.com/municipalservices/pkg/token"
	"github.com/gin-gonic/gin"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "token"

type AuthMiddleware struct {
	maker token.Maker
}

func NewAuthMiddleware(maker token.Maker) *AuthMiddleware {
	return &AuthMiddleware{maker: maker}
}

// RequireAuth resolves the session token into role claims. A missing token is
// answered with 401, a token that fails verification with 403.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, _ := c.Cookie(SessionCookie)

		if tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := m.maker.VerifyToken(tokenString)
		if err != nil {
			message := "invalid token"
			if errors.Is(err, token.ErrExpiredToken) {
				message = "session expired"
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
			return
		}

		c.Set(response.ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole lets the request through only when the caller's role is in roles.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, err := response.GetClaims(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if _, ok := allowed[claims.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRole(token.RoleAdmin)
}
