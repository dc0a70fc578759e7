package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"portfolio/internal/middleware"
)

const dashboardPath = middleware.AdminPrefix + "/dashboard"

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login accepts JSON or a form post. Form posts come from the login page and
// are answered with redirects instead of JSON.
func (h HandlerSet) Login(c *gin.Context) {
	fromPage := c.ContentType() != binding.MIMEJSON

	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		if fromPage {
			c.Redirect(http.StatusSeeOther, middleware.LoginPath+"?error=missing")
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	err := h.services.Auth.Login(req.Username, req.Password)
	h.metrics.ObserveLogin(err == nil)
	if err != nil {
		h.log.Info().Str("ip", c.ClientIP()).Msg("admin login rejected")
		if fromPage {
			c.Redirect(http.StatusSeeOther, middleware.LoginPath+"?error=invalid")
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if _, err := h.sessions.Create(c, req.Username); err != nil {
		h.log.Error().Err(err).Msg("issue session failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	if fromPage {
		c.Redirect(http.StatusSeeOther, dashboardPath)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) Logout(c *gin.Context) {
	h.sessions.Delete(c)
	if c.ContentType() == binding.MIMEPOSTForm {
		c.Redirect(http.StatusSeeOther, middleware.LoginPath)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) Session(c *gin.Context) {
	payload, ok := h.sessions.Verify(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"username":      payload.Username,
		"expiresAt":     payload.ExpiresAt,
	})
}
