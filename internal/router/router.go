package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/config"
	"github.com/stemsi/student-records/internal/handler"
	"github.com/stemsi/student-records/internal/middleware"
	"github.com/stemsi/student-records/internal/response"
	"github.com/stemsi/student-records/internal/web"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Home    *handler.HomeHandler
	Student *handler.StudentHandler
	System  *handler.SystemHandler
}

// SetupRouter configures the middleware chain, the embedded views and the
// route table. Anything unmatched answers with the plain-text 404.
func SetupRouter(
	handlers *Handlers,
	cfg *config.Config,
	limiter *middleware.RateLimiter,
	log zerolog.Logger,
) (*gin.Engine, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.AccessLog(log))
	router.Use(middleware.Brotli())

	// Embedded stylesheet, cached for a day.
	staticGroup := router.Group("/static")
	staticGroup.Use(middleware.CacheControl(86400))
	{
		staticGroup.StaticFS("/", http.FS(web.Static()))
	}

	router.GET("/health", handlers.System.Health)

	// ─── Pages and form posts ──────────────────────────────────────────
	pages := router.Group("/")
	pages.Use(middleware.NoStore(), limiter.Middleware())
	{
		pages.GET("/", handlers.Home.Home)

		pages.GET("/student", handlers.Student.ListStudents)
		pages.POST("/student", handlers.Student.CreateStudent)
		pages.GET("/student/create", handlers.Student.NewStudentForm)

		pages.GET("/student/:id", handlers.Student.GetStudent)
		pages.POST("/student/:id", handlers.Student.UpdateStudent)
		pages.POST("/student/:id/program", handlers.Student.UpdateStudentProgram)
		pages.POST("/student/:id/delete", handlers.Student.DeleteStudent)
	}

	router.NoRoute(response.NotFound)

	return router, nil
}
