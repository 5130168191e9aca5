package response

import (
	"errors"
	"net/http"
	"strconv"

	"anoa.com/municipalservices/pkg/apperror"
	"anoa.com/municipalservices/pkg/token"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClaimsKey is the gin context key the auth middleware stores verified claims under.
const ClaimsKey = "claims"

// GetClaims retrieves the authenticated role claim from the context
func GetClaims(c *gin.Context) (*token.Claims, error) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, apperror.ErrUnauthorized
	}

	claims, ok := value.(*token.Claims)
	if !ok || claims == nil {
		return nil, apperror.ErrUnauthorized
	}

	return claims, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		zap.L().Error("internal error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(code, gin.H{"error": apperror.ErrInternal.Error()})
		return
	}

	message := err.Error()
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		message = appErr.Error()
	}

	c.JSON(code, gin.H{"error": message})
}

// AbortError writes the error body and stops the handler chain.
func AbortError(c *gin.Context, err error) {
	ResponseError(c, err)
	c.Abort()
}

// ParamID parses a positive integer path parameter. On failure it writes a 400
// and returns false.
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
