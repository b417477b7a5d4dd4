package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReferenceHandler serves read-only reference data.
type ReferenceHandler struct {
	svc ReferenceService
	log *logrus.Logger
}

// NewReferenceHandler creates a ReferenceHandler.
func NewReferenceHandler(svc ReferenceService, log *logrus.Logger) *ReferenceHandler {
	return &ReferenceHandler{svc: svc, log: log}
}

// Buildings handles GET /api/v1/references/buildings.
func (h *ReferenceHandler) Buildings(c *gin.Context) {
	items, err := h.svc.ListBuildings(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err, "listing buildings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"buildings": items})
}

// Services handles GET /api/v1/references/services?building_id=.
func (h *ReferenceHandler) Services(c *gin.Context) {
	items, err := h.svc.ListServices(c.Request.Context(), c.Query("building_id"))
	if err != nil {
		respondServiceError(c, h.log, err, "listing services")
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": items})
}

// Locations handles GET /api/v1/references/locations?service_id=.
func (h *ReferenceHandler) Locations(c *gin.Context) {
	items, err := h.svc.ListLocations(c.Request.Context(), c.Query("service_id"))
	if err != nil {
		respondServiceError(c, h.log, err, "listing locations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": items})
}
