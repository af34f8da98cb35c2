package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"compliance-service/internal/config"
	"compliance-service/internal/models"
)

// Claims carries the identity fields the gateway signs into access
// tokens.
type Claims struct {
	UserID string      `json:"userId"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

const (
	ContextEmployeeID = "employeeId"
	ContextRole       = "role"
)

// Auth validates the bearer token and stores the caller's identity on
// the request context. Behind the gateway the identity may instead
// arrive as X-Employee-ID; the header is only honored when no bearer
// token is present.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			if id := c.GetHeader("X-Employee-ID"); id != "" {
				c.Set(ContextEmployeeID, id)
				if role := c.GetHeader("X-Employee-Role"); role != "" {
					c.Set(ContextRole, models.Role(role))
				}
				c.Next()
				return
			}
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == header {
			abortUnauthorized(c, "Authorization header must be a bearer token")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(config.AppConfig.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}
		if claims.UserID == "" {
			abortUnauthorized(c, "Token carries no user identity")
			return
		}

		c.Set(ContextEmployeeID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRole gates admin-only routes. It runs after Auth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := c.Get(ContextRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    http.StatusForbidden,
				"message": "Insufficient permissions",
			})
			return
		}
		role, _ := value.(models.Role)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code":    http.StatusForbidden,
			"message": "Insufficient permissions",
		})
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}

// EmployeeID returns the authenticated caller's id set by Auth.
func EmployeeID(c *gin.Context) string {
	return c.GetString(ContextEmployeeID)
}
