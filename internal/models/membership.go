package models

import "time"

// Membership links one equipment to one group. At most one row exists per pair.
type Membership struct {
	EquipmentID string    `json:"equipment_id"`
	GroupID     string    `json:"group_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// MembershipRequest identifies a membership pair.
type MembershipRequest struct {
	EquipmentID string `json:"equipment_id"`
	GroupID     string `json:"group_id"`
}

// Validate checks that both sides of the pair are present.
func (r *MembershipRequest) Validate() error {
	if r.EquipmentID == "" {
		return ErrMissingEquipmentID
	}

	if len(r.EquipmentID) > 255 {
		return ErrFieldTooLong("equipment_id", 255)
	}

	if r.GroupID == "" {
		return ErrMissingGroupID
	}

	if len(r.GroupID) > 255 {
		return ErrFieldTooLong("group_id", 255)
	}

	return nil
}
