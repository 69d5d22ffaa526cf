package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName is the auth cookie. The name is part of the login contract.
const CookieName = "jwt_fragematning"

// SetCookie attaches the token as an HTTP-only SameSite=Lax cookie.
// The secure flag follows the deployment mode.
func SetCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(ttl/time.Second), "/", "", secure, true)
}

// ClearCookie removes the auth cookie.
func ClearCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}
