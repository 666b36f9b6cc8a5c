package middleware

import (
	"context"
	"net/http"
	"strings"

	"funding-application-api/models"
	"funding-application-api/services"
	"funding-application-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserID       = "userID"
	ctxEmail        = "email"
	ctxRole         = "role"
	ctxTargetUserID = "targetUserID"
)

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// UserLookup resolves the account behind a token.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// AuthMiddleware validates the bearer JWT and loads the caller into the context.
func AuthMiddleware(secret string, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// Check if user still exists
		if users != nil {
			user, err := users.FindByID(c.Request.Context(), claims.UserID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			if user == nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				return
			}
			claims.Role = user.Role
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxRole, claims.Role)

		c.Next()
	}
}

// RequireRole checks if user has one of the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ctxRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// RequireSelfOrAdmin lets a request through only when the caller is the user
// named by the path parameter or holds the admin role. The sanitized id that
// was authorised is available to handlers through TargetUserID.
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		target := utils.SanitizeInput(c.Param(param))
		if err := AuthorizeUser(c.GetString(ctxUserID), c.GetString(ctxRole), target); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Set(ctxTargetUserID, target)
		c.Next()
	}
}

// TargetUserID returns the user id authorised by RequireSelfOrAdmin.
func TargetUserID(c *gin.Context) string {
	return c.GetString(ctxTargetUserID)
}

// AuthorizeUser returns services.ErrForbidden unless the caller may act on target.
func AuthorizeUser(callerID, callerRole, target string) error {
	if callerRole == models.RoleAdmin {
		return nil
	}
	if callerID == "" || callerID != target {
		return services.ErrForbidden
	}
	return nil
}

// CurrentUserID returns the authenticated caller's id.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
