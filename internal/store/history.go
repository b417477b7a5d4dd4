package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/gmaohq/gmao/internal/models"
)

// historyDateLayout is how date fields are rendered in history rows.
const historyDateLayout = "2006-01-02"

// HistoryStore handles equipment field history.
type HistoryStore struct {
	Base
}

// NewHistoryStore creates a new HistoryStore.
func NewHistoryStore(base Base) *HistoryStore {
	return &HistoryStore{Base: base}
}

// fieldDiff represents a single field value change.
type fieldDiff struct {
	field    string
	oldValue *string
	newValue *string
}

func strValue(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func dateValue(t *time.Time) *string {
	if t == nil {
		return nil
	}

	s := t.Format(historyDateLayout)

	return &s
}

// documentFields renders the history-tracked fields of d in a stable order.
func documentFields(d models.EquipmentDocument) []fieldDiff {
	health := strconv.Itoa(d.HealthPercentage)

	return []fieldDiff{
		{field: "name", newValue: strValue(d.Name)},
		{field: "description", newValue: strValue(d.Description)},
		{field: "manufacturer", newValue: strValue(d.Manufacturer)},
		{field: "model", newValue: strValue(d.Model)},
		{field: "serial_number", newValue: strValue(d.SerialNumber)},
		{field: "status", newValue: strValue(d.Status)},
		{field: "health_percentage", newValue: &health},
		{field: "purchase_date", newValue: dateValue(d.PurchaseDate)},
		{field: "install_date", newValue: dateValue(d.InstallDate)},
		{field: "warranty_expiry", newValue: dateValue(d.WarrantyExpiry)},
		{field: "last_maintenance", newValue: dateValue(d.LastMaintenance)},
		{field: "next_maintenance", newValue: dateValue(d.NextMaintenance)},
		{field: "building_id", newValue: d.BuildingID},
		{field: "service_id", newValue: d.ServiceID},
		{field: "location_id", newValue: d.LocationID},
	}
}

func equalValues(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}

// diffDocuments returns one diff per field whose rendered value changed.
func diffDocuments(oldDoc, newDoc models.EquipmentDocument) []fieldDiff {
	oldFields := documentFields(oldDoc)
	newFields := documentFields(newDoc)

	var diffs []fieldDiff

	for i, nf := range newFields {
		of := oldFields[i]
		if equalValues(of.newValue, nf.newValue) {
			continue
		}

		diffs = append(diffs, fieldDiff{field: nf.field, oldValue: of.newValue, newValue: nf.newValue})
	}

	return diffs
}

// RecordFieldChanges diffs oldDoc and newDoc, inserting a history row for
// each changed field. Package-level so EquipmentStore can call it within its
// transaction.
func RecordFieldChanges(
	ctx context.Context,
	tx pgx.Tx,
	equipmentID string,
	oldDoc, newDoc models.EquipmentDocument,
	changedBy string,
) error {
	changes := diffDocuments(oldDoc, newDoc)
	if len(changes) == 0 {
		return nil
	}

	ins := psql.Insert("equipment_history").
		Columns("equipment_id", "field_name", "old_value", "new_value", "changed_by")

	for _, c := range changes {
		ins = ins.Values(equipmentID, c.field, c.oldValue, c.newValue, changedBy)
	}

	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("building history insert: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting equipment history: %w", err)
	}

	return nil
}

// ListHistory returns history entries for an equipment, newest first, with
// optional exact field filter and has_more pagination.
func (s *HistoryStore) ListHistory(
	ctx context.Context, q models.HistoryQuery,
) ([]models.HistoryEntry, bool, error) {
	limit, offset := clampPage(q.Limit, q.Offset)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sel := psql.Select(historyColumns...).From("equipment_history").
		Where(sq.Eq{"equipment_id": q.EquipmentID})

	if q.FieldName != "" {
		sel = sel.Where(sq.Eq{"field_name": q.FieldName})
	}

	query, args, err := sel.OrderBy("changed_at DESC", "id DESC").
		Limit(uint64(limit + 1)). //nolint:gosec // limit is clamped positive.
		Offset(uint64(offset)).   //nolint:gosec // offset is clamped non-negative.
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("building history query: %w", err)
	}

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying equipment history: %w", err)
	}

	entries, err := collect(rows, "history", scanHistory)
	if err != nil {
		return nil, false, err
	}

	entries, hasMore := trimPage(entries, limit)

	return entries, hasMore, nil
}
