package store

import (
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gmaohq/gmao/internal/models"
)

// equipmentColumns lists the columns selected for equipment queries.
var equipmentColumns = []string{
	"id", "name", "description", "manufacturer", "model", "serial_number",
	"status", "health_percentage", "purchase_date", "install_date",
	"warranty_expiry", "last_maintenance", "next_maintenance",
	"building_id", "service_id", "location_id", "image_path",
	"created_at", "updated_at",
}

// groupColumns lists the columns selected for group queries.
var groupColumns = []string{"id", "name", "description", "image_path", "created_at", "updated_at"}

// interventionColumns lists the columns selected for intervention queries.
var interventionColumns = []string{
	"id", "equipment_id", "title", "description", "kind", "status",
	"scheduled_date", "completed_date", "technicians", "created_at", "updated_at",
}

// historyColumns lists the columns selected for history queries.
var historyColumns = []string{
	"id", "equipment_id", "field_name", "old_value", "new_value", "changed_by", "changed_at",
}

// scanEquipment scans a single row into a models.Equipment.
func scanEquipment(scan func(dest ...any) error) (*models.Equipment, error) {
	var e models.Equipment

	err := scan(
		&e.ID,
		&e.Name,
		&e.Description,
		&e.Manufacturer,
		&e.Model,
		&e.SerialNumber,
		&e.Status,
		&e.HealthPercentage,
		&e.PurchaseDate,
		&e.InstallDate,
		&e.WarrantyExpiry,
		&e.LastMaintenance,
		&e.NextMaintenance,
		&e.BuildingID,
		&e.ServiceID,
		&e.LocationID,
		&e.ImagePath,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// scanGroup scans a single row into a models.EquipmentGroup.
func scanGroup(scan func(dest ...any) error) (*models.EquipmentGroup, error) {
	var g models.EquipmentGroup

	if err := scan(&g.ID, &g.Name, &g.Description, &g.ImagePath, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}

	return &g, nil
}

// scanIntervention scans a single row into a models.Intervention.
func scanIntervention(scan func(dest ...any) error) (*models.Intervention, error) {
	var it models.Intervention

	err := scan(
		&it.ID,
		&it.EquipmentID,
		&it.Title,
		&it.Description,
		&it.Kind,
		&it.Status,
		&it.ScheduledDate,
		&it.CompletedDate,
		&it.Technicians,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if it.Technicians == nil {
		it.Technicians = []string{}
	}

	return &it, nil
}

// scanHistory scans a single row into a models.HistoryEntry.
func scanHistory(scan func(dest ...any) error) (*models.HistoryEntry, error) {
	var h models.HistoryEntry

	err := scan(&h.ID, &h.EquipmentID, &h.FieldName, &h.OldValue, &h.NewValue, &h.ChangedBy, &h.ChangedAt)
	if err != nil {
		return nil, err
	}

	return &h, nil
}

// scanAction scans a single row into a models.TechnicianAction.
func scanAction(scan func(dest ...any) error) (*models.TechnicianAction, error) {
	var a models.TechnicianAction
	var parts []byte

	if err := scan(&a.ID, &a.InterventionID, &a.Technician, &a.Action, &parts, &a.PerformedAt); err != nil {
		return nil, err
	}

	a.Parts = []models.PartUsage{}
	if len(parts) > 0 {
		if err := json.Unmarshal(parts, &a.Parts); err != nil {
			return nil, fmt.Errorf("unmarshalling action parts: %w", err)
		}
	}

	return &a, nil
}

// collect scans all rows with scanFn into a slice.
func collect[T any](rows pgx.Rows, what string, scanFn func(func(dest ...any) error) (*T, error)) ([]T, error) {
	defer rows.Close()

	out := make([]T, 0, 16)

	for rows.Next() {
		v, err := scanFn(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", what, err)
		}

		out = append(out, *v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", what, err)
	}

	return out, nil
}
