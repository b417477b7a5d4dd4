package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/models"
)

// EquipmentHandler serves equipment CRUD and image endpoints.
type EquipmentHandler struct {
	svc         EquipmentService
	enrich      EnrichmentService
	memberships MembershipService
	log         *logrus.Logger
}

// NewEquipmentHandler creates an EquipmentHandler.
func NewEquipmentHandler(
	svc EquipmentService, enrich EnrichmentService, memberships MembershipService, log *logrus.Logger,
) *EquipmentHandler {
	return &EquipmentHandler{svc: svc, enrich: enrich, memberships: memberships, log: log}
}

// List handles GET /api/v1/equipment. With enriched=true each item carries its group IDs.
func (h *EquipmentHandler) List(c *gin.Context) {
	opts := models.EquipmentListOpts{
		Status:     c.Query("status"),
		BuildingID: c.Query("building_id"),
		ServiceID:  c.Query("service_id"),
		LocationID: c.Query("location_id"),
		Limit:      parseInt(c.DefaultQuery("limit", "50"), 50),
		Offset:     parseOffset(c.DefaultQuery("offset", "0")),
	}

	items, hasMore, err := h.svc.ListEquipment(c.Request.Context(), opts)
	if err != nil {
		respondServiceError(c, h.log, err, "listing equipment")
		return
	}

	if c.Query("enriched") == "true" {
		items, err = h.enrich.EnrichEquipment(c.Request.Context(), items)
		if err != nil {
			respondServiceError(c, h.log, err, "enriching equipment")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"equipment": items, "has_more": hasMore})
}

// Get handles GET /api/v1/equipment/:id.
func (h *EquipmentHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	e, err := h.svc.GetEquipment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err, "getting equipment")
		return
	}

	c.JSON(http.StatusOK, e)
}

// Create handles POST /api/v1/equipment.
func (h *EquipmentHandler) Create(c *gin.Context) {
	var req models.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	e, err := h.svc.CreateEquipment(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.log, err, "creating equipment")
		return
	}

	c.JSON(http.StatusCreated, e)
}

// Update handles PUT /api/v1/equipment/:id. The body is the full document.
func (h *EquipmentHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	var req models.UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	if req.ChangedBy == "" {
		req.ChangedBy = actor(c)
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	e, err := h.svc.UpdateEquipment(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, h.log, err, "updating equipment")
		return
	}

	c.JSON(http.StatusOK, e)
}

// Delete handles DELETE /api/v1/equipment/:id.
func (h *EquipmentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	if err := h.svc.DeleteEquipment(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, err, "deleting equipment")
		return
	}

	h.log.WithFields(logrus.Fields{"action": "equipment.delete", "equipment_id": id}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Groups handles GET /api/v1/equipment/:id/groups.
func (h *EquipmentHandler) Groups(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	ids, err := h.memberships.GroupsForEquipment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err, "listing equipment groups")
		return
	}

	c.JSON(http.StatusOK, gin.H{"equipment_id": id, "group_ids": ids})
}

// UploadImage handles POST /api/v1/equipment/:id/image (multipart field "image").
func (h *EquipmentHandler) UploadImage(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	fh, err := c.FormFile(imageField)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "multipart field \"image\" is required")
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "unreadable upload")
		return
	}
	defer f.Close()

	e, err := h.svc.SetEquipmentImage(c.Request.Context(), id, fh.Filename, f)
	if err != nil {
		respondServiceError(c, h.log, err, "uploading equipment image")
		return
	}

	c.JSON(http.StatusOK, e)
}

// DeleteImage handles DELETE /api/v1/equipment/:id/image.
func (h *EquipmentHandler) DeleteImage(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	e, err := h.svc.DeleteEquipmentImage(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err, "deleting equipment image")
		return
	}

	c.JSON(http.StatusOK, e)
}
