package models

import (
	"time"

	"github.com/google/uuid"
)

// EquipmentGroup is a named collection of equipment.
type EquipmentGroup struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImagePath   *string   `json:"-"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// EquipmentIDs is derived by an enrichment pass; nil until enriched.
	EquipmentIDs []string `json:"equipment_ids,omitempty"`
}

// CreateGroupRequest is the payload for creating an equipment group.
type CreateGroupRequest struct {
	ID          string `json:"id" validate:"max=255"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=10000"`
}

// Validate checks the payload. If ID is empty, a UUID is generated.
func (r *CreateGroupRequest) Validate() error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	return validateStruct(r)
}

// UpdateGroupRequest replaces the writable fields of a group.
type UpdateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=10000"`
}

// Validate checks the payload.
func (r *UpdateGroupRequest) Validate() error {
	return validateStruct(r)
}
