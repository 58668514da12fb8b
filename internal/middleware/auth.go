package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/DhavalSuthar-24/cricksim/pkg/token"
	"github.com/gin-gonic/gin"
)

const (
	AuthOperatorKey = "auth_operator"
)

// AuthMiddleware admits requests bearing a valid operator token.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || strings.ToLower(bearerToken[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format. Expected: Bearer <token>"})
			return
		}

		claims, err := token.ValidateJWT(bearerToken[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
			return
		}
		if claims.Role != token.RoleOperator {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Operator role required"})
			return
		}

		c.Set(AuthOperatorKey, claims.Operator)
		c.Next()
	}
}

// GetOperatorFromContext extracts the operator name set by AuthMiddleware.
func GetOperatorFromContext(c *gin.Context) (string, error) {
	v, exists := c.Get(AuthOperatorKey)
	if !exists {
		return "", errors.New("operator not found in context")
	}
	operator, ok := v.(string)
	if !ok {
		return "", errors.New("operator has unexpected type")
	}
	return operator, nil
}
