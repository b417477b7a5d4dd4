// Package api provides HTTP handlers for the GMAO server.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/db"
	"github.com/gmaohq/gmao/internal/dbpool"
)

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	pool      *dbpool.Pool
	relations RelationStatus
	log       *logrus.Logger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler with the given dependencies.
// pool and relations may be nil.
func NewHealthHandler(pool *dbpool.Pool, relations RelationStatus, log *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{
		pool:      pool,
		relations: relations,
		log:       log,
		version:   version,
		startTime: time.Now(),
	}
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
	Pool   *dbpool.Stats     `json:"pool,omitempty"`
}

// healthResponse is the JSON payload returned by the health/liveness endpoint.
type healthResponse struct {
	Status          string  `json:"status"`
	Version         string  `json:"version"`
	Database        string  `json:"database"`
	RelationVersion uint64  `json:"relation_version"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

// Liveness handles GET /api/v1/health.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Database:      "connected",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	// Best-effort database ping (non-fatal for liveness).
	if h.pool != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.pool.HealthCheck(ctx); err != nil {
			resp.Database = "disconnected"
		}
	} else {
		resp.Database = "not_configured"
	}

	if h.relations != nil {
		resp.RelationVersion = h.relations.Version()
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready. It checks the database, the schema
// version and the membership cache.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{
		"database":  "ok",
		"schema":    "ok",
		"relations": "ok",
	}
	status := "ready"
	statusCode := http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if h.pool == nil {
		checks["database"] = "not_configured"
		checks["schema"] = "unknown"
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	} else if err := h.pool.HealthCheck(ctx); err != nil {
		h.log.WithError(err).Error("readiness: database health check failed")
		checks["database"] = "error"
		checks["schema"] = "unknown"
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	} else if err := h.checkSchema(ctx); err != nil {
		h.log.WithError(err).Error("readiness: schema check failed")
		checks["schema"] = "error"
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	// A failed membership refresh degrades but does not block readiness:
	// the cached relation is still served.
	if h.relations != nil && h.relations.Err() != nil {
		checks["relations"] = "degraded"
	}

	resp := readinessResponse{Status: status, Checks: checks}
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}

	c.JSON(statusCode, resp)
}

// checkSchema verifies that migrations have reached the expected version.
func (h *HealthHandler) checkSchema(ctx context.Context) error {
	var version int64
	err := h.pool.QueryRow(ctx, "SELECT COALESCE(MAX(version_id), 0) FROM goose_db_version WHERE is_applied").Scan(&version)
	if err != nil {
		return fmt.Errorf("schema check: %w", err)
	}

	if want := db.SchemaVersion(); version < want {
		return fmt.Errorf("schema version %d, want %d", version, want)
	}

	return nil
}
