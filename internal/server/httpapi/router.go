// Package httpapi exposes the services over a JSON REST API built on gin.
package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/jobassist/internal/logging"
	"github.com/dmitrijs2005/jobassist/internal/server/services"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

type Handler struct {
	svc    *services.Set
	logger logging.Logger
	now    func() time.Time
}

func NewHandler(svc *services.Set, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Handler{svc: svc, logger: logger.With("module", "http"), now: time.Now}
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc *services.Set, logger logging.Logger) *gin.Engine {
	return NewHandler(svc, logger).Router()
}

func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsCfg.ExposeHeaders = []string{"Retry-After", "Content-Disposition"}
	r.Use(cors.New(corsCfg))

	r.GET("/health", h.health)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.POST("/logout", h.requireAuth, h.logout)
	}

	api := r.Group("/", h.requireAuth)
	{
		api.GET("/profile", h.getProfile)
		api.PUT("/profile", h.updateProfile)
		api.GET("/profile/strength", h.profileStrength)
		api.POST("/profile/resume/upload", h.uploadResume)

		api.GET("/jobs/search", h.searchJobs)
		api.GET("/jobs/matches", h.jobMatches)
		api.GET("/jobs/:jobId", h.jobDetails)
		api.POST("/jobs/:jobId/apply", h.applyToJob)

		api.POST("/applications/assisted-apply", h.assistedApply)
		api.GET("/applications", h.listApplications)
		api.GET("/applications/stats", h.applicationStats)
		api.GET("/applications/export", h.exportApplications)
		api.POST("/applications/reconcile", h.reconcileApplications)
		api.GET("/applications/:applicationId", h.getApplication)
		api.PUT("/applications/:applicationId/status", h.updateApplicationStatus)

		api.GET("/dashboard", h.dashboard)
	}

	return r
}
