package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/gmaohq/gmao/internal/models"
)

// EquipmentStore provides equipment CRUD operations.
type EquipmentStore struct {
	Base
}

// NewEquipmentStore creates a new EquipmentStore.
func NewEquipmentStore(base Base) *EquipmentStore {
	return &EquipmentStore{Base: base}
}

// unknownLocationRef maps foreign key failures on building, service or
// location columns to a validation error.
func unknownLocationRef(constraint string) error {
	return fmt.Errorf("%w: unknown building, service or location (%s)", models.ErrValidation, constraint)
}

// ListEquipment returns equipment matching opts ordered by name, with a
// has_more flag for pagination.
func (s *EquipmentStore) ListEquipment(
	ctx context.Context, opts models.EquipmentListOpts,
) ([]models.Equipment, bool, error) {
	limit, offset := clampPage(opts.Limit, opts.Offset)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	q := psql.Select(equipmentColumns...).From("equipment")

	if opts.Status != "" {
		q = q.Where(sq.Eq{"status": opts.Status})
	}

	if opts.BuildingID != "" {
		q = q.Where(sq.Eq{"building_id": opts.BuildingID})
	}

	if opts.ServiceID != "" {
		q = q.Where(sq.Eq{"service_id": opts.ServiceID})
	}

	if opts.LocationID != "" {
		q = q.Where(sq.Eq{"location_id": opts.LocationID})
	}

	query, args, err := q.OrderBy("name", "id").
		Limit(uint64(limit + 1)). //nolint:gosec // limit is clamped positive.
		Offset(uint64(offset)).   //nolint:gosec // offset is clamped non-negative.
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("building equipment query: %w", err)
	}

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying equipment: %w", err)
	}

	items, err := collect(rows, "equipment", scanEquipment)
	if err != nil {
		return nil, false, err
	}

	items, hasMore := trimPage(items, limit)

	return items, hasMore, nil
}

// GetEquipment retrieves a single equipment record by ID.
func (s *EquipmentStore) GetEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args, err := psql.Select(equipmentColumns...).From("equipment").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building equipment query: %w", err)
	}

	e, err := scanEquipment(s.Pool.QueryRow(ctx, query, args...).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrEquipmentNotFound
		}

		return nil, fmt.Errorf("getting equipment: %w", err)
	}

	return e, nil
}

// CreateEquipment inserts a new equipment record and returns it.
func (s *EquipmentStore) CreateEquipment(
	ctx context.Context, req models.CreateEquipmentRequest,
) (*models.Equipment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	d := req.EquipmentDocument

	query, args, err := psql.Insert("equipment").
		Columns(
			"id", "name", "description", "manufacturer", "model", "serial_number",
			"status", "health_percentage", "purchase_date", "install_date",
			"warranty_expiry", "last_maintenance", "next_maintenance",
			"building_id", "service_id", "location_id",
		).
		Values(
			req.ID, d.Name, d.Description, d.Manufacturer, d.Model, d.SerialNumber,
			d.Status, d.HealthPercentage, d.PurchaseDate, d.InstallDate,
			d.WarrantyExpiry, d.LastMaintenance, d.NextMaintenance,
			d.BuildingID, d.ServiceID, d.LocationID,
		).
		Suffix("RETURNING " + joinColumns(equipmentColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building equipment insert: %w", err)
	}

	e, err := scanEquipment(s.Pool.QueryRow(ctx, query, args...).Scan)
	if err != nil {
		return nil, fmt.Errorf("creating equipment: %w", pgError(err, unknownLocationRef))
	}

	return e, nil
}

// UpdateEquipment replaces the document of an equipment record. Every changed
// field is appended to the equipment history in the same transaction.
func (s *EquipmentStore) UpdateEquipment(
	ctx context.Context, id string, req models.UpdateEquipmentRequest,
) (*models.Equipment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("updating equipment: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query, args, err := psql.Select(equipmentColumns...).From("equipment").
		Where(sq.Eq{"id": id}).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building equipment query: %w", err)
	}

	old, err := scanEquipment(tx.QueryRow(ctx, query, args...).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrEquipmentNotFound
		}

		return nil, fmt.Errorf("locking equipment: %w", err)
	}

	d := req.EquipmentDocument

	query, args, err = psql.Update("equipment").SetMap(map[string]any{
		"name":              d.Name,
		"description":       d.Description,
		"manufacturer":      d.Manufacturer,
		"model":             d.Model,
		"serial_number":     d.SerialNumber,
		"status":            d.Status,
		"health_percentage": d.HealthPercentage,
		"purchase_date":     d.PurchaseDate,
		"install_date":      d.InstallDate,
		"warranty_expiry":   d.WarrantyExpiry,
		"last_maintenance":  d.LastMaintenance,
		"next_maintenance":  d.NextMaintenance,
		"building_id":       d.BuildingID,
		"service_id":        d.ServiceID,
		"location_id":       d.LocationID,
		"updated_at":        sq.Expr("NOW()"),
	}).Where(sq.Eq{"id": id}).Suffix("RETURNING " + joinColumns(equipmentColumns)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building equipment update: %w", err)
	}

	updated, err := scanEquipment(tx.QueryRow(ctx, query, args...).Scan)
	if err != nil {
		return nil, fmt.Errorf("updating equipment: %w", pgError(err, unknownLocationRef))
	}

	if err := RecordFieldChanges(ctx, tx, id, old.Document(), d, req.ChangedBy); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing update equipment: %w", err)
	}

	return updated, nil
}

// DeleteEquipment removes an equipment record and, by cascade, its
// memberships, history and interventions. It returns the stored image path so
// the caller can remove the blob.
func (s *EquipmentStore) DeleteEquipment(ctx context.Context, id string) (*string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var imagePath *string

	err := s.Pool.QueryRow(ctx, "DELETE FROM equipment WHERE id = $1 RETURNING image_path", id).Scan(&imagePath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrEquipmentNotFound
		}

		return nil, fmt.Errorf("deleting equipment: %w", err)
	}

	return imagePath, nil
}

// SetEquipmentImage stores a new image path (nil clears it) and returns the
// previous one.
func (s *EquipmentStore) SetEquipmentImage(ctx context.Context, id string, path *string) (*string, error) {
	return setImagePath(ctx, s.Pool.QueryRow, "equipment", id, path, models.ErrEquipmentNotFound)
}

// setImagePath swaps image_path on table and returns the old value.
func setImagePath(
	ctx context.Context,
	queryRow func(ctx context.Context, sql string, args ...any) pgx.Row,
	table, id string,
	path *string,
	notFound error,
) (*string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `UPDATE ` + table + ` t SET image_path = $1, updated_at = NOW()
		FROM (SELECT id, image_path FROM ` + table + ` WHERE id = $2 FOR UPDATE) old
		WHERE t.id = old.id
		RETURNING old.image_path`

	var previous *string

	if err := queryRow(ctx, query, path, id).Scan(&previous); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound
		}

		return nil, fmt.Errorf("setting %s image: %w", table, err)
	}

	return previous, nil
}
