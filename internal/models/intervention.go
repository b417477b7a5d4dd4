package models

import (
	"time"

	"github.com/google/uuid"
)

// Intervention statuses.
const (
	InterventionScheduled  = "scheduled"
	InterventionInProgress = "in-progress"
	InterventionCompleted  = "completed"
	InterventionCancelled  = "cancelled"
)

// InterventionStatuses lists every valid intervention status.
var InterventionStatuses = []string{
	InterventionScheduled, InterventionInProgress, InterventionCompleted, InterventionCancelled,
}

// IsInterventionStatus reports whether s is a known intervention status.
func IsInterventionStatus(s string) bool {
	for _, v := range InterventionStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Intervention is a maintenance event on one equipment.
//
// ScheduledDate and CompletedDate hold the dates as stored by the backing
// table (ISO-8601 text), which may be absent or malformed on legacy rows.
type Intervention struct {
	ID            string             `json:"id"`
	EquipmentID   string             `json:"equipment_id"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	Kind          string             `json:"kind"`
	Status        string             `json:"status"`
	ScheduledDate *string            `json:"scheduled_date,omitempty"`
	CompletedDate *string            `json:"completed_date,omitempty"`
	Technicians   []string           `json:"technicians"`
	Actions       []TechnicianAction `json:"actions,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// TechnicianAction records work performed by a technician during an intervention.
type TechnicianAction struct {
	ID             int64       `json:"id"`
	InterventionID string      `json:"intervention_id"`
	Technician     string      `json:"technician"`
	Action         string      `json:"action"`
	Parts          []PartUsage `json:"parts"`
	PerformedAt    time.Time   `json:"performed_at"`
}

// PartUsage is a quantity of a spare part consumed by an action.
type PartUsage struct {
	Name     string `json:"name" validate:"required,max=255"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

// CreateInterventionRequest is the payload for creating an intervention.
type CreateInterventionRequest struct {
	ID            string   `json:"id" validate:"max=255"`
	EquipmentID   string   `json:"equipment_id" validate:"required,max=255"`
	Title         string   `json:"title" validate:"required,max=255"`
	Description   string   `json:"description" validate:"max=10000"`
	Kind          string   `json:"kind" validate:"omitempty,oneof=preventive corrective inspection"`
	Status        string   `json:"status" validate:"omitempty,oneof=scheduled in-progress completed cancelled"`
	ScheduledDate *string  `json:"scheduled_date" validate:"omitempty,datetime=2006-01-02"`
	Technicians   []string `json:"technicians" validate:"max=50,dive,required,max=255"`
}

// Validate checks the payload and applies defaults.
func (r *CreateInterventionRequest) Validate() error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	if r.Kind == "" {
		r.Kind = "corrective"
	}

	if r.Status == "" {
		r.Status = InterventionScheduled
	}

	if r.Technicians == nil {
		r.Technicians = []string{}
	}

	return validateStruct(r)
}

// UpdateInterventionStatusRequest changes the status of an intervention.
type UpdateInterventionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled in-progress completed cancelled"`
}

// Validate checks the payload.
func (r *UpdateInterventionStatusRequest) Validate() error {
	return validateStruct(r)
}

// AddActionRequest appends a technician action to an intervention.
type AddActionRequest struct {
	Technician string      `json:"technician" validate:"required,max=255"`
	Action     string      `json:"action" validate:"required,max=10000"`
	Parts      []PartUsage `json:"parts" validate:"max=100,dive"`
}

// Validate checks the payload.
func (r *AddActionRequest) Validate() error {
	if r.Parts == nil {
		r.Parts = []PartUsage{}
	}

	return validateStruct(r)
}

// InterventionListOpts holds store-level filters for listing interventions.
type InterventionListOpts struct {
	EquipmentID string
	Limit       int
	Offset      int
}
