package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/ShehanaHewage/TheCloset/models"
)

// Context keys set by Authenticate.
const (
	ContextUserIDKey   = "userID"
	ContextUsernameKey = "username"
	ContextRoleKey     = "role"
)

// Authenticate verifies the bearer token and attaches its claims (account id,
// username, role) to the request context. Absent, malformed, expired, or
// badly-signed tokens are rejected with 401.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortWith(c, http.StatusUnauthorized, "Authorization token required")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			abortWith(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		userID, _ := claims["id"].(string)
		username, _ := claims["username"].(string)
		role, _ := claims["type"].(string)
		if userID == "" {
			abortWith(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextUsernameKey, username)
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// OptionalAuthenticate attaches claims when a valid bearer token is present
// but never rejects the request. Used on public routes that personalize for
// signed-in users.
func OptionalAuthenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if userID, _ := claims["id"].(string); userID != "" {
				c.Set(ContextUserIDKey, userID)
				if username, _ := claims["username"].(string); username != "" {
					c.Set(ContextUsernameKey, username)
				}
				if role, _ := claims["type"].(string); role != "" {
					c.Set(ContextRoleKey, role)
				}
			}
		}
		c.Next()
	}
}

// RequireAdmin rejects requests whose authenticated role is not admin. Must
// run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRoleKey)
		if !exists {
			abortWith(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		if role != models.UserTypeAdmin {
			abortWith(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated account id from the request context.
func UserID(c *gin.Context) (string, bool) {
	id, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	s, ok := id.(string)
	return s, ok && s != ""
}

func abortWith(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "message": message})
}
