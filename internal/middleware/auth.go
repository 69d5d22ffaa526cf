package middleware

import (
	"net/http"
	"time"

	"github.com/kth-biblioteket/fragematning/internal/auth"
	"github.com/kth-biblioteket/fragematning/internal/config"

	"github.com/gin-gonic/gin"
)

// ContextUser and ContextRole are the gin context keys the gates set.
const (
	ContextUser = "username"
	ContextRole = "role"
)

// AuthRequired verifies the JWT cookie and puts the caller's identity on the
// context. Missing tokens get 401; invalid or expired tokens additionally
// get the cookie cleared.
func AuthRequired(cfg *config.Config) gin.HandlerFunc {
	secure := cfg.Server.Mode == "release"
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(auth.CookieName)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"auth": false, "message": "No token"})
			return
		}

		claims, err := auth.ParseToken(cfg.Auth.Secret, tokenStr)
		if err != nil {
			auth.ClearCookie(c, secure)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"auth": false, "message": "Failed to authenticate token, " + err.Error()})
			return
		}

		c.Set(ContextUser, claims.Username)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// AdminRequired is the admin gate: a valid token whose role allows admin.
// On success it reissues a fresh token with a renewed expiry before
// continuing, so active admin sessions slide instead of expiring mid-use.
func AdminRequired(cfg *config.Config) gin.HandlerFunc {
	secure := cfg.Server.Mode == "release"
	ttl := time.Duration(cfg.Auth.ExpireDays) * 24 * time.Hour
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(auth.CookieName)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"auth": false, "message": "No token"})
			return
		}

		claims, err := auth.ParseToken(cfg.Auth.Secret, tokenStr)
		if err != nil {
			auth.ClearCookie(c, secure)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"auth": false, "message": "Failed to authenticate token, " + err.Error()})
			return
		}

		if !claims.Role.Allows(auth.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"auth": false, "message": "Not authorized"})
			return
		}

		fresh, err := auth.GenerateToken(cfg.Auth.Secret, claims.Username, claims.Role, ttl)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "token refresh failed"})
			return
		}
		auth.SetCookie(c, fresh, ttl, secure)

		c.Set(ContextUser, claims.Username)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}
