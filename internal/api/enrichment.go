package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/models"
)

// EnrichmentHandler serves enriched equipment and groups in one pass.
type EnrichmentHandler struct {
	svc EnrichmentService
	log *logrus.Logger
}

// NewEnrichmentHandler creates an EnrichmentHandler.
func NewEnrichmentHandler(svc EnrichmentService, log *logrus.Logger) *EnrichmentHandler {
	return &EnrichmentHandler{svc: svc, log: log}
}

// Get handles GET /api/v1/enrichment. Either both lists are returned enriched
// or the request fails as a whole.
func (h *EnrichmentHandler) Get(c *gin.Context) {
	opts := models.EquipmentListOpts{
		Status:     c.Query("status"),
		BuildingID: c.Query("building_id"),
		ServiceID:  c.Query("service_id"),
		LocationID: c.Query("location_id"),
		Limit:      parseInt(c.DefaultQuery("limit", "1000"), 1000),
		Offset:     parseOffset(c.DefaultQuery("offset", "0")),
	}

	res, err := h.svc.EnrichAll(c.Request.Context(), opts)
	if err != nil {
		respondServiceError(c, h.log, err, "enrichment pass")
		return
	}

	c.JSON(http.StatusOK, res)
}
