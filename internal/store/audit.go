package store

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/models"
)

// AuditStore provides data access for the audit_log table.
type AuditStore struct {
	Base
}

// NewAuditStore creates an AuditStore.
func NewAuditStore(base Base) *AuditStore {
	return &AuditStore{Base: base}
}

// RecordAudit inserts an audit log entry. An empty actor is stored as NULL.
func (s *AuditStore) RecordAudit(
	ctx context.Context,
	action, entityType, entityID, actor string,
	detail map[string]any,
) error {
	var detailJSON []byte
	if detail != nil {
		var err error
		if detailJSON, err = json.Marshal(detail); err != nil {
			return fmt.Errorf("marshaling audit detail: %w", err)
		}
	}

	query, args, err := psql.Insert("audit_log").
		Columns("action", "entity_type", "entity_id", "actor", "detail").
		Values(action, entityType, entityID, nullIfEmpty(actor), detailJSON).
		ToSql()
	if err != nil {
		return fmt.Errorf("building audit insert: %w", err)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := s.Pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	return nil
}

func nullIfEmpty(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// auditFilter builds the WHERE predicates from AuditQueryOpts.
func auditFilter(sel sq.SelectBuilder, opts models.AuditQueryOpts) sq.SelectBuilder {
	if opts.EntityType != "" {
		sel = sel.Where(sq.Eq{"entity_type": opts.EntityType})
	}
	if opts.EntityID != "" {
		sel = sel.Where(sq.Eq{"entity_id": opts.EntityID})
	}
	if opts.Action != "" {
		sel = sel.Where(sq.Eq{"action": opts.Action})
	}
	if opts.Since != nil {
		sel = sel.Where(sq.GtOrEq{"created_at": *opts.Since})
	}

	return sel
}

// QueryAudit returns audit entries matching the given filters.
// Returns entries, hasMore flag, and any error.
func (s *AuditStore) QueryAudit(
	ctx context.Context, opts models.AuditQueryOpts,
) ([]models.AuditEntry, bool, error) {
	limit, offset := clampPage(opts.Limit, opts.Offset)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sel := psql.Select("id", "action", "entity_type", "entity_id", "actor", "detail", "created_at").
		From("audit_log")

	query, args, err := auditFilter(sel, opts).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit + 1)). //nolint:gosec // limit is clamped positive.
		Offset(uint64(offset)).   //nolint:gosec // offset is clamped non-negative.
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("building audit query: %w", err)
	}

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying audit log: %w", err)
	}

	entries, err := scanAuditRows(rows, s.Log)
	if err != nil {
		return nil, false, err
	}

	entries, hasMore := trimPage(entries, limit)

	return entries, hasMore, nil
}

// scanAuditRows scans audit entries from the result.
func scanAuditRows(rows pgx.Rows, log *logrus.Logger) ([]models.AuditEntry, error) {
	defer rows.Close()

	entries := make([]models.AuditEntry, 0, 16)

	for rows.Next() {
		var e models.AuditEntry
		var detailJSON []byte
		var actor *string

		if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &actor, &detailJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		if actor != nil {
			e.Actor = *actor
		}
		if detailJSON != nil {
			if err := json.Unmarshal(detailJSON, &e.Detail); err != nil {
				log.WithError(err).Warn("failed to unmarshal audit detail")
			}
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit rows: %w", err)
	}

	return entries, nil
}

// purgeBatchSize bounds each DELETE so a large purge never holds long locks
// on audit_log while workers keep inserting.
const purgeBatchSize = 5000

// PurgeOldEntries deletes entries older than retentionDays, batch by batch,
// and returns how many went.
func (s *AuditStore) PurgeOldEntries(ctx context.Context, retentionDays int) (int, error) {
	oldest := psql.Select("ctid").From("audit_log").
		Where(sq.Expr("created_at < NOW() - make_interval(days => ?)", retentionDays)).
		Limit(purgeBatchSize)

	query, args, err := psql.Delete("audit_log").
		Where(oldest.Prefix("ctid IN (").Suffix(")")).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building audit purge: %w", err)
	}

	total := 0
	for {
		batchCtx, cancel := withTimeout(ctx)
		tag, err := s.Pool.Exec(batchCtx, query, args...)
		cancel()
		if err != nil {
			return total, fmt.Errorf("purging audit entries: %w", err)
		}

		n := int(tag.RowsAffected())
		total += n
		if n < purgeBatchSize {
			return total, nil
		}
	}
}
