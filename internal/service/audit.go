package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/domain"
	"github.com/gmaohq/gmao/internal/models"
)

// AuditLogStore reads and prunes persisted audit entries.
type AuditLogStore interface {
	QueryAudit(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
	PurgeOldEntries(ctx context.Context, retentionDays int) (int, error)
}

var _ domain.AuditService = (*AuditService)(nil)

// minRetentionDays keeps at least a week of audit history.
const minRetentionDays = 7

// AuditService serves the audit log. A purge is itself audited, so the
// trail shows who shortened it.
type AuditService struct {
	store  AuditLogStore
	worker AuditEnqueuer
	log    *logrus.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(store AuditLogStore, worker AuditEnqueuer, log *logrus.Logger) *AuditService {
	return &AuditService{store: store, worker: worker, log: log}
}

// QueryAudit returns entries newest first.
func (s *AuditService) QueryAudit(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error) {
	if opts.EntityType != "" && !models.IsAuditEntityType(opts.EntityType) {
		return nil, false, fmt.Errorf("%w: unknown entity_type %q", models.ErrValidation, opts.EntityType)
	}

	return s.store.QueryAudit(ctx, opts)
}

// PurgeOldEntries deletes entries older than retentionDays.
func (s *AuditService) PurgeOldEntries(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays < minRetentionDays {
		return 0, fmt.Errorf("%w: retention_days must be at least %d", models.ErrValidation, minRetentionDays)
	}

	deleted, err := s.store.PurgeOldEntries(ctx, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("purging audit log: %w", err)
	}

	actor := domain.ActorFrom(ctx)
	s.log.WithFields(logrus.Fields{
		"retention_days": retentionDays,
		"deleted":        deleted,
		"actor":          actor,
	}).Info("audit log purged")

	if s.worker != nil && deleted > 0 {
		s.worker.Enqueue(&AuditJob{
			Action:     "audit.purge",
			EntityType: models.EntityAudit,
			EntityID:   "audit_log",
			Actor:      actor,
			Detail:     map[string]any{"retention_days": retentionDays, "deleted": deleted},
		})
	}

	return deleted, nil
}
