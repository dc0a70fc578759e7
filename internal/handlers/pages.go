package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/internal/middleware"
)

var loginErrors = map[string]string{
	"missing": "Enter a username and password.",
	"invalid": "Invalid credentials.",
}

// AdminIndex sends the visitor to the dashboard or the login page.
func (h HandlerSet) AdminIndex(c *gin.Context) {
	if _, ok := h.sessions.Verify(c); ok {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

func (h HandlerSet) LoginPage(c *gin.Context) {
	if _, ok := h.sessions.Verify(c); ok {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Error": loginErrors[c.Query("error")],
	})
}

func (h HandlerSet) Dashboard(c *gin.Context) {
	counts, err := h.services.Counts(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("dashboard counts failed")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	username := ""
	if payload, ok := middleware.CurrentSession(c); ok {
		username = payload.Username
	}
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Username":   username,
		"Hero":       counts["hero"],
		"Skills":     counts["skills"],
		"Experience": counts["experience"],
		"Projects":   counts["projects"],
	})
}
