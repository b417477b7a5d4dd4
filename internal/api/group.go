package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/models"
)

// imageField is the multipart form field carrying an uploaded image.
const imageField = "image"

// GroupHandler serves equipment group CRUD and image endpoints.
type GroupHandler struct {
	svc         GroupService
	memberships MembershipService
	log         *logrus.Logger
}

// NewGroupHandler creates a GroupHandler.
func NewGroupHandler(svc GroupService, memberships MembershipService, log *logrus.Logger) *GroupHandler {
	return &GroupHandler{svc: svc, memberships: memberships, log: log}
}

// List handles GET /api/v1/groups.
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.svc.ListGroups(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err, "listing groups")
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// Get handles GET /api/v1/groups/:id.
func (h *GroupHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	g, err := h.svc.GetGroup(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err, "getting group")
		return
	}

	c.JSON(http.StatusOK, g)
}

// Create handles POST /api/v1/groups.
func (h *GroupHandler) Create(c *gin.Context) {
	var req models.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	g, err := h.svc.CreateGroup(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.log, err, "creating group")
		return
	}

	c.JSON(http.StatusCreated, g)
}

// Update handles PUT /api/v1/groups/:id.
func (h *GroupHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	var req models.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	g, err := h.svc.UpdateGroup(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, h.log, err, "updating group")
		return
	}

	c.JSON(http.StatusOK, g)
}

// Delete handles DELETE /api/v1/groups/:id.
func (h *GroupHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	if err := h.svc.DeleteGroup(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, err, "deleting group")
		return
	}

	h.log.WithFields(logrus.Fields{"action": "group.delete", "group_id": id}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Equipment handles GET /api/v1/groups/:id/equipment.
func (h *GroupHandler) Equipment(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	ids, err := h.memberships.EquipmentForGroup(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err, "listing group equipment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"group_id": id, "equipment_ids": ids})
}

// UploadImage handles POST /api/v1/groups/:id/image (multipart field "image").
func (h *GroupHandler) UploadImage(c *gin.Context) {
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

	g, err := h.svc.SetGroupImage(c.Request.Context(), id, fh.Filename, f)
	if err != nil {
		respondServiceError(c, h.log, err, "uploading group image")
		return
	}

	c.JSON(http.StatusOK, g)
}

// DeleteImage handles DELETE /api/v1/groups/:id/image.
func (h *GroupHandler) DeleteImage(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	g, err := h.svc.DeleteGroupImage(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err, "deleting group image")
		return
	}

	c.JSON(http.StatusOK, g)
}
