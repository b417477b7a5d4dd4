package models

import (
	"slices"
	"time"
)

// Audited entity types. Membership changes are recorded against the equipment
// side of the pair with the group in the detail. Purges are recorded against
// the log itself.
const (
	EntityEquipment    = "equipment"
	EntityGroup        = "group"
	EntityIntervention = "intervention"
	EntityAudit        = "audit"
)

// IsAuditEntityType reports whether s names an audited entity type.
func IsAuditEntityType(s string) bool {
	return slices.Contains([]string{EntityEquipment, EntityGroup, EntityIntervention, EntityAudit}, s)
}

// AuditEntry is one recorded mutation. Actor is the name sent by the client,
// empty for anonymous changes.
type AuditEntry struct {
	ID         int64          `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Actor      string         `json:"actor,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AuditQueryOpts holds filters for querying the audit log.
type AuditQueryOpts struct {
	EntityType string
	EntityID   string
	Action     string
	Since      *time.Time
	Limit      int
	Offset     int
}
