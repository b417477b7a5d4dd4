package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/export"
	"github.com/gmaohq/gmao/internal/filter"
	"github.com/gmaohq/gmao/internal/models"
)

// InterventionHandler serves intervention endpoints.
type InterventionHandler struct {
	svc InterventionService
	log *logrus.Logger
}

// NewInterventionHandler creates an InterventionHandler.
func NewInterventionHandler(svc InterventionService, log *logrus.Logger) *InterventionHandler {
	return &InterventionHandler{svc: svc, log: log}
}

func interventionQuery(c *gin.Context) (models.InterventionListOpts, filter.InterventionOptions, error) {
	list := models.InterventionListOpts{
		EquipmentID: c.Query("equipment_id"),
		Limit:       parseInt(c.DefaultQuery("limit", "50"), 50),
		Offset:      parseOffset(c.DefaultQuery("offset", "0")),
	}

	opts := filter.InterventionOptions{
		Technician: c.Query("technician"),
		Status:     strings.TrimSpace(c.Query("status")),
	}

	if opts.Status != "" && opts.Status != filter.StatusAll && !models.IsInterventionStatus(opts.Status) {
		return list, opts, fmt.Errorf("status must be one of all, %s", strings.Join(models.InterventionStatuses, ", "))
	}

	var err error
	if opts.DateFrom, err = parseDateQuery(c, "date_from"); err != nil {
		return list, opts, err
	}
	if opts.DateTo, err = parseDateQuery(c, "date_to"); err != nil {
		return list, opts, err
	}

	return list, opts, nil
}

// List handles GET /api/v1/interventions.
func (h *InterventionHandler) List(c *gin.Context) {
	list, opts, err := interventionQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	items, hasMore, err := h.svc.ListInterventions(c.Request.Context(), list, opts)
	if err != nil {
		respondServiceError(c, h.log, err, "listing interventions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"interventions":      items,
		"has_more":           hasMore,
		"filters":            opts,
		"has_active_filters": opts.HasActiveFilters(),
	})
}

// Export handles GET /api/v1/interventions/export.
func (h *InterventionHandler) Export(c *gin.Context) {
	list, opts, err := interventionQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	list.Limit = parseInt(c.DefaultQuery("limit", "1000"), 1000)

	items, _, err := h.svc.ListInterventions(c.Request.Context(), list, opts)
	if err != nil {
		respondServiceError(c, h.log, err, "exporting interventions")
		return
	}

	var buf bytes.Buffer
	if err := export.Interventions(&buf, items); err != nil {
		respondServiceError(c, h.log, err, "rendering intervention export")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="interventions.xlsx"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// Get handles GET /api/v1/interventions/:id.
func (h *InterventionHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	it, err := h.svc.GetIntervention(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err, "getting intervention")
		return
	}

	c.JSON(http.StatusOK, it)
}

// Create handles POST /api/v1/interventions.
func (h *InterventionHandler) Create(c *gin.Context) {
	var req models.CreateInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	it, err := h.svc.CreateIntervention(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.log, err, "creating intervention")
		return
	}

	c.JSON(http.StatusCreated, it)
}

// UpdateStatus handles PATCH /api/v1/interventions/:id/status.
func (h *InterventionHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	var req models.UpdateInterventionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	it, err := h.svc.UpdateInterventionStatus(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, h.log, err, "updating intervention status")
		return
	}

	c.JSON(http.StatusOK, it)
}

// AddAction handles POST /api/v1/interventions/:id/actions.
func (h *InterventionHandler) AddAction(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	var req models.AddActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	a, err := h.svc.AddAction(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, h.log, err, "adding intervention action")
		return
	}

	c.JSON(http.StatusCreated, a)
}
