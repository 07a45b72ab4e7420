package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Context keys set by RequireAdmin.
const (
	UserIDKey = "userID"
	RoleKey   = "role"
	EmailKey  = "email"
)

// RequireAdmin is the single authorization guard for every admin route.
// It accepts a bearer token or the session cookie set at login, and
// rejects callers whose role claim is not admin.
func RequireAdmin(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		claims, err := parseAndValidateToken(tokenStr, secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)
		if role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			c.Abort()
			return
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Set(UserIDKey, sub)
		}
		if email, ok := claims["email"].(string); ok {
			c.Set(EmailKey, email)
		}
		c.Set(RoleKey, role)
		c.Next()
	}
}

// Actor returns the authenticated caller's identity for audit fields,
// preferring the email claim.
func Actor(c *gin.Context) string {
	if email, ok := c.Get(EmailKey); ok {
		if s, ok := email.(string); ok && s != "" {
			return s
		}
	}
	if id, ok := c.Get(UserIDKey); ok {
		if s, ok := id.(string); ok && s != "" {
			return s
		}
	}
	return "unknown"
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}
	return ""
}

func parseAndValidateToken(tokenStr, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
