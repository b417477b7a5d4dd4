package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/gmaohq/gmao/internal/models"
)

// InterventionStore provides intervention and technician action operations.
type InterventionStore struct {
	Base
}

// NewInterventionStore creates a new InterventionStore.
func NewInterventionStore(base Base) *InterventionStore {
	return &InterventionStore{Base: base}
}

// ListInterventions returns interventions, optionally for one equipment,
// most recently scheduled first.
func (s *InterventionStore) ListInterventions(
	ctx context.Context, opts models.InterventionListOpts,
) ([]models.Intervention, bool, error) {
	limit, offset := clampPage(opts.Limit, opts.Offset)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sel := psql.Select(interventionColumns...).From("interventions")

	if opts.EquipmentID != "" {
		sel = sel.Where(sq.Eq{"equipment_id": opts.EquipmentID})
	}

	query, args, err := sel.OrderBy("scheduled_date DESC NULLS LAST", "created_at DESC").
		Limit(uint64(limit + 1)). //nolint:gosec // limit is clamped positive.
		Offset(uint64(offset)).   //nolint:gosec // offset is clamped non-negative.
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("building intervention query: %w", err)
	}

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying interventions: %w", err)
	}

	items, err := collect(rows, "intervention", scanIntervention)
	if err != nil {
		return nil, false, err
	}

	items, hasMore := trimPage(items, limit)

	return items, hasMore, nil
}

// GetIntervention retrieves an intervention with its technician actions.
func (s *InterventionStore) GetIntervention(ctx context.Context, id string) (*models.Intervention, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting intervention: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query, args, err := psql.Select(interventionColumns...).From("interventions").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building intervention query: %w", err)
	}

	it, err := scanIntervention(tx.QueryRow(ctx, query, args...).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrInterventionNotFound
		}

		return nil, fmt.Errorf("getting intervention: %w", err)
	}

	rows, err := tx.Query(ctx,
		`SELECT id, intervention_id, technician, action, parts, performed_at
		FROM intervention_actions WHERE intervention_id = $1
		ORDER BY performed_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("querying intervention actions: %w", err)
	}

	it.Actions, err = collect(rows, "action", scanAction)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing intervention query: %w", err)
	}

	return it, nil
}

// CreateIntervention inserts a new intervention and returns it.
func (s *InterventionStore) CreateIntervention(
	ctx context.Context, req models.CreateInterventionRequest,
) (*models.Intervention, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args, err := psql.Insert("interventions").
		Columns("id", "equipment_id", "title", "description", "kind", "status", "scheduled_date", "technicians").
		Values(req.ID, req.EquipmentID, req.Title, req.Description, req.Kind, req.Status, req.ScheduledDate, req.Technicians).
		Suffix("RETURNING " + joinColumns(interventionColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building intervention insert: %w", err)
	}

	it, err := scanIntervention(s.Pool.QueryRow(ctx, query, args...).Scan)
	if err != nil {
		return nil, fmt.Errorf("creating intervention: %w", pgError(err, referenceNotFound))
	}

	return it, nil
}

// UpdateInterventionStatus sets the status of an intervention. Moving to
// completed stamps the completion date when none is recorded; moving away
// from completed clears it.
func (s *InterventionStore) UpdateInterventionStatus(
	ctx context.Context, id, status string, now time.Time,
) (*models.Intervention, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	completed := sq.Expr("NULL")
	if status == models.InterventionCompleted {
		completed = sq.Expr("COALESCE(completed_date, ?)", now.UTC().Format("2006-01-02"))
	}

	query, args, err := psql.Update("interventions").
		Set("status", status).
		Set("completed_date", completed).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(interventionColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building intervention update: %w", err)
	}

	it, err := scanIntervention(s.Pool.QueryRow(ctx, query, args...).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrInterventionNotFound
		}

		return nil, fmt.Errorf("updating intervention status: %w", err)
	}

	return it, nil
}

// AddAction appends a technician action to an intervention.
func (s *InterventionStore) AddAction(
	ctx context.Context, interventionID string, req models.AddActionRequest,
) (*models.TechnicianAction, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	parts, err := json.Marshal(req.Parts)
	if err != nil {
		return nil, fmt.Errorf("marshalling action parts: %w", err)
	}

	row := s.Pool.QueryRow(ctx,
		`INSERT INTO intervention_actions (intervention_id, technician, action, parts)
		VALUES ($1, $2, $3, $4)
		RETURNING id, intervention_id, technician, action, parts, performed_at`,
		interventionID, req.Technician, req.Action, parts,
	)

	a, err := scanAction(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("adding intervention action: %w", pgError(err, func(string) error {
			return models.ErrInterventionNotFound
		}))
	}

	return a, nil
}
