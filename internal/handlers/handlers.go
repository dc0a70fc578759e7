package handlers

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"portfolio/internal/config"
	"portfolio/internal/metrics"
	"portfolio/internal/middleware"
	"portfolio/internal/service"
	"portfolio/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	services service.Services
	sessions *session.Manager
	metrics  *metrics.Metrics
	checks   []HealthCheck
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, services service.Services, sessions *session.Manager, m *metrics.Metrics, checks ...HealthCheck) HandlerSet {
	return HandlerSet{
		log:      log,
		cfg:      cfg,
		services: services,
		sessions: sessions,
		metrics:  m,
		checks:   checks,
	}
}

// Register installs the admin page guard and every route on engine. It must
// run before any other route is added so the guard covers them.
func (h HandlerSet) Register(engine *gin.Engine) {
	engine.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.html")))
	engine.Use(middleware.AdminGuard(h.sessions))

	if h.metrics != nil {
		engine.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	pages := engine.Group(middleware.AdminPrefix)
	{
		pages.GET("", h.AdminIndex)
		pages.GET("/login", h.LoginPage)
		pages.GET("/dashboard", h.Dashboard)
	}

	api := engine.Group("/api")
	api.GET("/healthz", h.Health)
	api.GET("/resume", h.Resume)

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/session", h.Session)
	}

	guard := middleware.RequireSession(h.sessions)
	admin := api.Group("/admin")

	hero := heroHandler{svc: h.services.Hero, metrics: h.metrics, log: h.log}
	api.GET("/hero", hero.get)
	admin.GET("/hero", hero.get)
	admin.POST("/hero", guard, hero.create)
	admin.PUT("/hero", guard, hero.update)
	admin.DELETE("/hero", guard, hero.remove)

	registerContent(api, admin, "/skills", guard, newContentHandler(h.services.Skills, h.metrics, h.log))
	registerContent(api, admin, "/experience", guard, newContentHandler(h.services.Experience, h.metrics, h.log))
	registerContent(api, admin, "/projects", guard, newContentHandler(h.services.Projects, h.metrics, h.log))
}
