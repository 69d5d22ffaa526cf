package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/kth-biblioteket/fragematning/internal/auth"
	"github.com/kth-biblioteket/fragematning/internal/config"

	"github.com/gin-gonic/gin"
)

// AuthHandler implements the shared-credential login contract. Credentials
// and roles come from the pre-provisioned config maps; there is no
// registration.
type AuthHandler struct {
	Cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{Cfg: cfg}
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) secure() bool {
	return h.Cfg.Server.Mode == "release"
}

func (h *AuthHandler) ttl() time.Duration {
	return time.Duration(h.Cfg.Auth.ExpireDays) * 24 * time.Hour
}

// Login checks the credential map and sets the JWT cookie. The response
// carries the client-facing base path so the frontend knows where to go.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "wrong credentials"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	configured, ok := h.Cfg.Auth.Users[req.Username]
	if !ok || !auth.CheckPassword(configured, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "wrong credentials"})
		return
	}

	role := auth.ParseRole(h.Cfg.Auth.Roles[req.Username])
	token, err := auth.GenerateToken(h.Cfg.Auth.Secret, req.Username, role, h.ttl())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not sign token"})
		return
	}

	auth.SetCookie(c, token, h.ttl(), h.secure())
	c.JSON(http.StatusOK, gin.H{"message": "Success", "app_path": h.Cfg.App.Path + "/"})
}

// Logout clears the auth cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	auth.ClearCookie(c, h.secure())
	c.JSON(http.StatusOK, gin.H{"message": "Success", "app_path": h.Cfg.App.Path + "/"})
}

// Authorize is the client shell's probe: it returns the caller's role, or
// login semantics when the cookie is absent or invalid.
func (h *AuthHandler) Authorize(c *gin.Context) {
	tokenStr, err := c.Cookie(auth.CookieName)
	if err != nil || tokenStr == "" {
		c.Redirect(http.StatusFound, h.Cfg.App.Path+"/login.html")
		return
	}

	claims, err := auth.ParseToken(h.Cfg.Auth.Secret, tokenStr)
	if err != nil {
		auth.ClearCookie(c, h.secure())
		c.JSON(http.StatusUnauthorized, gin.H{"auth": false, "message": "Failed to authenticate token, " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": claims.Role})
}
