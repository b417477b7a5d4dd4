package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/models"
	"github.com/gmaohq/gmao/internal/relations"
)

// MembershipHandler serves the membership relation and its mutations.
type MembershipHandler struct {
	svc MembershipService
	log *logrus.Logger
}

// NewMembershipHandler creates a MembershipHandler.
func NewMembershipHandler(svc MembershipService, log *logrus.Logger) *MembershipHandler {
	return &MembershipHandler{svc: svc, log: log}
}

// mutationResponse is returned by membership writes. RefreshError is set
// when the write succeeded but the refetch that follows it did not.
type mutationResponse struct {
	EquipmentID  string `json:"equipment_id"`
	GroupID      string `json:"group_id"`
	Version      uint64 `json:"version"`
	RefreshError string `json:"refresh_error,omitempty"`
}

func newMutationResponse(equipmentID, groupID string, res *relations.MutationResult) mutationResponse {
	out := mutationResponse{EquipmentID: equipmentID, GroupID: groupID, Version: res.Version}
	if res.RefreshErr != nil {
		out.RefreshError = res.RefreshErr.Error()
	}
	return out
}

// List handles GET /api/v1/memberships.
func (h *MembershipHandler) List(c *gin.Context) {
	state, err := h.svc.ListRelations(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err, "listing memberships")
		return
	}

	c.JSON(http.StatusOK, state)
}

// Refresh handles POST /api/v1/memberships/refresh.
func (h *MembershipHandler) Refresh(c *gin.Context) {
	state, err := h.svc.Refresh(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err, "refreshing memberships")
		return
	}

	c.JSON(http.StatusOK, state)
}

// Add handles POST /api/v1/memberships.
func (h *MembershipHandler) Add(c *gin.Context) {
	var req models.MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		return
	}

	res, err := h.svc.AddMembership(c.Request.Context(), req.EquipmentID, req.GroupID)
	if err != nil {
		respondServiceError(c, h.log, err, "adding membership")
		return
	}

	c.JSON(http.StatusCreated, newMutationResponse(req.EquipmentID, req.GroupID, res))
}

// Remove handles DELETE /api/v1/memberships/:equipment_id/:group_id.
func (h *MembershipHandler) Remove(c *gin.Context) {
	req := models.MembershipRequest{
		EquipmentID: c.Param("equipment_id"),
		GroupID:     c.Param("group_id"),
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	res, err := h.svc.RemoveMembership(c.Request.Context(), req.EquipmentID, req.GroupID)
	if err != nil {
		respondServiceError(c, h.log, err, "removing membership")
		return
	}

	c.JSON(http.StatusOK, newMutationResponse(req.EquipmentID, req.GroupID, res))
}
