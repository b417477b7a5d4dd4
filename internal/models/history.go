package models

import "time"

// HistoryEntry is one immutable field change on an equipment record.
type HistoryEntry struct {
	ID          int64     `json:"id"`
	EquipmentID string    `json:"equipment_id"`
	FieldName   string    `json:"field_name"`
	OldValue    *string   `json:"old_value"`
	NewValue    *string   `json:"new_value"`
	ChangedBy   string    `json:"changed_by"`
	ChangedAt   time.Time `json:"changed_at"`
}

// HistoryQuery holds query parameters for history lookups.
type HistoryQuery struct {
	EquipmentID string
	FieldName   string // optional filter
	Limit       int
	Offset      int
}
