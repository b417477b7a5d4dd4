// Package models defines data types for the maintenance backend.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Equipment statuses.
const (
	StatusOperational = "operational"
	StatusMaintenance = "maintenance"
	StatusFaulty      = "faulty"
)

// EquipmentStatuses lists every valid equipment status.
var EquipmentStatuses = []string{StatusOperational, StatusMaintenance, StatusFaulty}

// Equipment is a tracked physical asset.
type Equipment struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	Manufacturer     string     `json:"manufacturer,omitempty"`
	Model            string     `json:"model,omitempty"`
	SerialNumber     string     `json:"serial_number,omitempty"`
	Status           string     `json:"status"`
	HealthPercentage int        `json:"health_percentage"`
	PurchaseDate     *time.Time `json:"purchase_date,omitempty"`
	InstallDate      *time.Time `json:"install_date,omitempty"`
	WarrantyExpiry   *time.Time `json:"warranty_expiry,omitempty"`
	LastMaintenance  *time.Time `json:"last_maintenance,omitempty"`
	NextMaintenance  *time.Time `json:"next_maintenance,omitempty"`
	BuildingID       *string    `json:"building_id,omitempty"`
	ServiceID        *string    `json:"service_id,omitempty"`
	LocationID       *string    `json:"location_id,omitempty"`
	ImagePath        *string    `json:"-"`
	ImageURL         *string    `json:"image_url,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// GroupIDs is derived by an enrichment pass; nil until enriched.
	GroupIDs []string `json:"group_ids,omitempty"`
}

// EquipmentDocument is the full writable document of an equipment record.
// Updates always replace the whole document.
type EquipmentDocument struct {
	Name             string     `json:"name" validate:"required,max=255"`
	Description      string     `json:"description" validate:"max=10000"`
	Manufacturer     string     `json:"manufacturer" validate:"max=255"`
	Model            string     `json:"model" validate:"max=255"`
	SerialNumber     string     `json:"serial_number" validate:"max=255"`
	Status           string     `json:"status" validate:"required,oneof=operational maintenance faulty"`
	HealthPercentage int        `json:"health_percentage" validate:"min=0,max=100"`
	PurchaseDate     *time.Time `json:"purchase_date"`
	InstallDate      *time.Time `json:"install_date"`
	WarrantyExpiry   *time.Time `json:"warranty_expiry"`
	LastMaintenance  *time.Time `json:"last_maintenance"`
	NextMaintenance  *time.Time `json:"next_maintenance"`
	BuildingID       *string    `json:"building_id" validate:"omitempty,max=255"`
	ServiceID        *string    `json:"service_id" validate:"omitempty,max=255"`
	LocationID       *string    `json:"location_id" validate:"omitempty,max=255"`
}

// CreateEquipmentRequest is the payload for creating equipment.
type CreateEquipmentRequest struct {
	ID string `json:"id" validate:"max=255"`
	EquipmentDocument
}

// Validate checks the payload. If ID is empty, a UUID is generated.
func (r *CreateEquipmentRequest) Validate() error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	if r.Status == "" {
		r.Status = StatusOperational
	}

	return validateStruct(r)
}

// UpdateEquipmentRequest replaces an equipment document. ChangedBy names the
// actor recorded in the field history.
type UpdateEquipmentRequest struct {
	EquipmentDocument
	ChangedBy string `json:"changed_by" validate:"max=255"`
}

// Validate checks the payload.
func (r *UpdateEquipmentRequest) Validate() error {
	return validateStruct(r)
}

// EquipmentListOpts holds filters for listing equipment.
type EquipmentListOpts struct {
	Status     string
	BuildingID string
	ServiceID  string
	LocationID string
	Limit      int
	Offset     int
}

// Document returns the writable part of e.
func (e *Equipment) Document() EquipmentDocument {
	return EquipmentDocument{
		Name:             e.Name,
		Description:      e.Description,
		Manufacturer:     e.Manufacturer,
		Model:            e.Model,
		SerialNumber:     e.SerialNumber,
		Status:           e.Status,
		HealthPercentage: e.HealthPercentage,
		PurchaseDate:     e.PurchaseDate,
		InstallDate:      e.InstallDate,
		WarrantyExpiry:   e.WarrantyExpiry,
		LastMaintenance:  e.LastMaintenance,
		NextMaintenance:  e.NextMaintenance,
		BuildingID:       e.BuildingID,
		ServiceID:        e.ServiceID,
		LocationID:       e.LocationID,
	}
}
