package server

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"threat-tracker/internal/config"
	"threat-tracker/internal/handlers"
	"threat-tracker/internal/middleware"
	"threat-tracker/internal/risk"
	"threat-tracker/web"
)

func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func level(score int) string {
	return string(risk.LevelOf(score))
}

func templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"money": formatMoney,
		"level": level,
	}).ParseFS(web.Templates, "templates/*.html"))
}

func NewRouter(cfg *config.Config, h *handlers.Handlers, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.MaxMultipartMemory = cfg.MaxUploadMB << 20

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic(err)
	}
	r.StaticFS("/static", http.FS(static))
	r.SetHTMLTemplate(templates())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("threat_session", store))

	r.Use(middleware.InjectStatus(log))

	// MAIN WINDOW
	r.GET("/", handlers.IndexPage)
	r.GET("/threats", h.ListThreats)

	// LOAD THREATS
	r.POST("/threats/load", h.LoadThreats)

	// MITIGATE THREAT
	r.GET("/threats/:id/mitigate", h.ShowMitigate)
	r.POST("/threats/:id/mitigate", h.Mitigate)

	// PLOT LIKELIHOOD VS IMPACT
	r.GET("/threats/plot", h.PlotPage)
	r.GET("/threats/plot.png", h.PlotPNG)

	// EXPORT
	r.GET("/threats/export.csv", h.ExportCSV)
	r.GET("/threats/export.pdf", h.ExportPDF)

	// AUDIT
	r.GET("/audit", h.ListAuditLogs)

	// HEALTHCHECK / METRICS
	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.Metrics.Registry, promhttp.HandlerOpts{})))

	return r
}
