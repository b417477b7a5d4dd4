package client

import (
	"net/url"
	"strconv"
	"time"
)

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
	ImageURL         *string    `json:"image_url,omitempty"`
	GroupIDs         []string   `json:"group_ids,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// EquipmentDocument is the writable part of an equipment record.
type EquipmentDocument struct {
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Manufacturer     string     `json:"manufacturer"`
	Model            string     `json:"model"`
	SerialNumber     string     `json:"serial_number"`
	Status           string     `json:"status"`
	HealthPercentage int        `json:"health_percentage"`
	PurchaseDate     *time.Time `json:"purchase_date"`
	InstallDate      *time.Time `json:"install_date"`
	WarrantyExpiry   *time.Time `json:"warranty_expiry"`
	LastMaintenance  *time.Time `json:"last_maintenance"`
	NextMaintenance  *time.Time `json:"next_maintenance"`
	BuildingID       *string    `json:"building_id"`
	ServiceID        *string    `json:"service_id"`
	LocationID       *string    `json:"location_id"`
}

// CreateEquipmentRequest is the payload for creating equipment.
type CreateEquipmentRequest struct {
	ID string `json:"id,omitempty"`
	EquipmentDocument
}

// UpdateEquipmentRequest replaces an equipment document.
type UpdateEquipmentRequest struct {
	EquipmentDocument
	ChangedBy string `json:"changed_by,omitempty"`
}

// EquipmentGroup is a named collection of equipment.
type EquipmentGroup struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	ImageURL     *string   `json:"image_url,omitempty"`
	EquipmentIDs []string  `json:"equipment_ids,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GroupRequest is the payload for creating or updating a group.
type GroupRequest struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Membership links one equipment to one group.
type Membership struct {
	EquipmentID string    `json:"equipment_id"`
	GroupID     string    `json:"group_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// MembershipState is the cached relation as served by the API. Error is set
// when the last refresh failed and the list may be stale.
type MembershipState struct {
	Memberships []Membership `json:"memberships"`
	Version     uint64       `json:"version"`
	RefreshedAt time.Time    `json:"refreshed_at"`
	Stale       bool         `json:"stale"`
	Error       string       `json:"error,omitempty"`
}

// MutationResult reports a membership write. RefreshError is set when the
// write succeeded but the refetch that follows it failed.
type MutationResult struct {
	EquipmentID  string `json:"equipment_id"`
	GroupID      string `json:"group_id"`
	Version      uint64 `json:"version"`
	RefreshError string `json:"refresh_error,omitempty"`
}

// EnrichmentResult holds equipment and groups enriched in one pass.
type EnrichmentResult struct {
	Equipment []Equipment      `json:"equipment"`
	Groups    []EquipmentGroup `json:"groups"`
}

// HistoryEntry is one field change on an equipment record.
type HistoryEntry struct {
	ID          int64     `json:"id"`
	EquipmentID string    `json:"equipment_id"`
	FieldName   string    `json:"field_name"`
	OldValue    *string   `json:"old_value"`
	NewValue    *string   `json:"new_value"`
	ChangedBy   string    `json:"changed_by"`
	ChangedAt   time.Time `json:"changed_at"`
}

// Intervention is a maintenance event on one equipment.
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

// TechnicianAction records work performed during an intervention.
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
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// CreateInterventionRequest is the payload for creating an intervention.
type CreateInterventionRequest struct {
	ID            string   `json:"id,omitempty"`
	EquipmentID   string   `json:"equipment_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Kind          string   `json:"kind,omitempty"`
	Status        string   `json:"status,omitempty"`
	ScheduledDate *string  `json:"scheduled_date,omitempty"`
	Technicians   []string `json:"technicians,omitempty"`
}

// AddActionRequest appends a technician action to an intervention.
type AddActionRequest struct {
	Technician string      `json:"technician"`
	Action     string      `json:"action"`
	Parts      []PartUsage `json:"parts,omitempty"`
}

// Building is a physical site.
type Building struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Service is an organisational unit hosted in a building.
type Service struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	BuildingID *string `json:"building_id,omitempty"`
}

// Location is a room or area belonging to a service.
type Location struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ServiceID *string `json:"service_id,omitempty"`
}

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	ID         int64          `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Actor      string         `json:"actor,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status          string  `json:"status"`
	Version         string  `json:"version"`
	Database        string  `json:"database"`
	RelationVersion uint64  `json:"relation_version"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

// ReadyResponse is returned by the readiness endpoint.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
	Pool   *PoolStats        `json:"pool,omitempty"`
}

// PoolStats reports database connection usage.
type PoolStats struct {
	Total int32 `json:"total"`
	Idle  int32 `json:"idle"`
	InUse int32 `json:"in_use"`
	Max   int32 `json:"max"`
}

// EquipmentListOptions filters equipment listings.
type EquipmentListOptions struct {
	Status     string
	BuildingID string
	ServiceID  string
	LocationID string
	Enriched   bool
	Limit      int
	Offset     int
}

func (o *EquipmentListOptions) values() url.Values {
	params := url.Values{}
	if o == nil {
		return params
	}
	setIf(params, "status", o.Status)
	setIf(params, "building_id", o.BuildingID)
	setIf(params, "service_id", o.ServiceID)
	setIf(params, "location_id", o.LocationID)
	if o.Enriched {
		params.Set("enriched", "true")
	}
	setPage(params, o.Limit, o.Offset)
	return params
}

// HistoryFilter narrows an equipment history listing. Dates are YYYY-MM-DD
// or RFC3339; DateTo covers its whole day.
type HistoryFilter struct {
	Technician string
	Field      string
	DateFrom   string
	DateTo     string
}

func (f *HistoryFilter) values() url.Values {
	params := url.Values{}
	if f == nil {
		return params
	}
	setIf(params, "technician", f.Technician)
	setIf(params, "field", f.Field)
	setIf(params, "date_from", f.DateFrom)
	setIf(params, "date_to", f.DateTo)
	return params
}

// InterventionFilter narrows an intervention listing. Status "all" or empty
// matches any status.
type InterventionFilter struct {
	EquipmentID string
	Technician  string
	Status      string
	DateFrom    string
	DateTo      string
	Limit       int
	Offset      int
}

func (f *InterventionFilter) values() url.Values {
	params := url.Values{}
	if f == nil {
		return params
	}
	setIf(params, "equipment_id", f.EquipmentID)
	setIf(params, "technician", f.Technician)
	setIf(params, "status", f.Status)
	setIf(params, "date_from", f.DateFrom)
	setIf(params, "date_to", f.DateTo)
	setPage(params, f.Limit, f.Offset)
	return params
}

// AuditQueryOptions filters audit log queries.
type AuditQueryOptions struct {
	EntityType string
	EntityID   string
	Action     string
	Since      *time.Time
	Limit      int
	Offset     int
}

func setIf(params url.Values, key, v string) {
	if v != "" {
		params.Set(key, v)
	}
}

func setPage(params url.Values, limit, offset int) {
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
}
