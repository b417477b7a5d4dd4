package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/dbpool"
	"github.com/gmaohq/gmao/internal/middleware"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log               *logrus.Logger
	Pool              *dbpool.Pool
	Relations         RelationStatus
	Equipment         EquipmentService
	Groups            GroupService
	Memberships       MembershipService
	Enrichment        EnrichmentService
	History           HistoryService
	Interventions     InterventionService
	References        ReferenceService
	Audit             AuditService
	CORSOrigins       []string
	Version           string
	UploadDir         string
	ReferenceCacheTTL time.Duration
	RateLimit         float64
	RateBurst         int
}

const (
	maxJSONBody   = 1 << 20  // 1 MB
	maxUploadBody = 10 << 20 // 10 MB
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.MaxMultipartMemory = maxUploadBody
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders("/uploads"))
	r.Use(middleware.MaxBodySize(maxJSONBody, maxUploadBody))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", ActorHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(deps.RateLimit, deps.RateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())
	r.Use(actorContext())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if deps.UploadDir != "" {
		r.Static("/uploads", deps.UploadDir)
	}
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, deps.Relations, log, deps.Version)
	equipment := NewEquipmentHandler(deps.Equipment, deps.Enrichment, deps.Memberships, log)
	groups := NewGroupHandler(deps.Groups, deps.Memberships, log)
	memberships := NewMembershipHandler(deps.Memberships, log)
	enrichment := NewEnrichmentHandler(deps.Enrichment, log)
	history := NewHistoryHandler(deps.History, log)
	interventions := NewInterventionHandler(deps.Interventions, log)
	references := NewReferenceHandler(deps.References, log)
	audit := NewAuditHandler(deps.Audit, log)

	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// Equipment.
	api.GET("/equipment", equipment.List)
	api.POST("/equipment", equipment.Create)
	api.GET("/equipment/:id", equipment.Get)
	api.PUT("/equipment/:id", equipment.Update)
	api.DELETE("/equipment/:id", equipment.Delete)
	api.GET("/equipment/:id/groups", equipment.Groups)
	api.GET("/equipment/:id/history", history.List)
	api.GET("/equipment/:id/history/export", history.Export)
	api.POST("/equipment/:id/image", equipment.UploadImage)
	api.DELETE("/equipment/:id/image", equipment.DeleteImage)

	// Groups.
	api.GET("/groups", groups.List)
	api.POST("/groups", groups.Create)
	api.GET("/groups/:id", groups.Get)
	api.PUT("/groups/:id", groups.Update)
	api.DELETE("/groups/:id", groups.Delete)
	api.GET("/groups/:id/equipment", groups.Equipment)
	api.POST("/groups/:id/image", groups.UploadImage)
	api.DELETE("/groups/:id/image", groups.DeleteImage)

	// Memberships and enrichment.
	api.GET("/memberships", memberships.List)
	api.POST("/memberships", memberships.Add)
	api.POST("/memberships/refresh", memberships.Refresh)
	api.DELETE("/memberships/:equipment_id/:group_id", memberships.Remove)
	api.GET("/enrichment", enrichment.Get)

	// Interventions.
	api.GET("/interventions", interventions.List)
	api.POST("/interventions", interventions.Create)
	api.GET("/interventions/export", interventions.Export)
	api.GET("/interventions/:id", interventions.Get)
	api.PATCH("/interventions/:id/status", interventions.UpdateStatus)
	api.POST("/interventions/:id/actions", interventions.AddAction)

	// Reference data changes rarely; serve it from a response cache.
	refs := api.Group("/references", middleware.NewResponseCache(deps.ReferenceCacheTTL).Handler())
	refs.GET("/buildings", references.Buildings)
	refs.GET("/services", references.Services)
	refs.GET("/locations", references.Locations)

	// Audit.
	api.GET("/audit", audit.Query)
	api.DELETE("/audit", audit.Purge)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(deps *RouterDeps) http.Handler {
	if deps.ReferenceCacheTTL <= 0 {
		deps.ReferenceCacheTTL = 5 * time.Minute
	}
	if deps.RateLimit <= 0 {
		deps.RateLimit = 20
	}
	if deps.RateBurst <= 0 {
		deps.RateBurst = 40
	}

	r := gin.New()
	setupMiddleware(r, deps)
	registerRoutes(r.Group("/api/v1"), deps)

	return r
}
