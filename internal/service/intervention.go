package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/domain"
	"github.com/gmaohq/gmao/internal/filter"
	"github.com/gmaohq/gmao/internal/models"
)

// InterventionStore is the data-access interface InterventionService depends on.
type InterventionStore interface {
	ListInterventions(ctx context.Context, opts models.InterventionListOpts) ([]models.Intervention, bool, error)
	GetIntervention(ctx context.Context, id string) (*models.Intervention, error)
	CreateIntervention(ctx context.Context, req models.CreateInterventionRequest) (*models.Intervention, error)
	UpdateInterventionStatus(ctx context.Context, id, status string, now time.Time) (*models.Intervention, error)
	AddAction(ctx context.Context, interventionID string, req models.AddActionRequest) (*models.TechnicianAction, error)
}

// Compile-time check: *InterventionService must satisfy domain.InterventionService.
var _ domain.InterventionService = (*InterventionService)(nil)

// InterventionService wraps InterventionStore with filtering and audit logging.
type InterventionService struct {
	store InterventionStore
	audit auditTrail
	log   *logrus.Logger
	now   func() time.Time
}

// NewInterventionService creates an InterventionService.
func NewInterventionService(store InterventionStore, auditWorker AuditEnqueuer, log *logrus.Logger) *InterventionService {
	return &InterventionService{
		store: store,
		audit: auditTrail{worker: auditWorker},
		log:   log,
		now:   time.Now,
	}
}

// ListInterventions loads one page of interventions and applies the
// intervention filter to it.
func (s *InterventionService) ListInterventions(
	ctx context.Context, list models.InterventionListOpts, opts filter.InterventionOptions,
) ([]models.Intervention, bool, error) {
	items, hasMore, err := s.store.ListInterventions(ctx, list)
	if err != nil {
		return nil, false, err
	}

	out := filter.Interventions(items, opts, s.log)

	s.log.WithFields(logrus.Fields{
		"equipment_id": list.EquipmentID,
		"loaded":       len(items),
		"matched":      len(out),
	}).Debug("intervention.list")

	return out, hasMore, nil
}

// GetIntervention returns an intervention with its actions (pass-through).
func (s *InterventionService) GetIntervention(ctx context.Context, id string) (*models.Intervention, error) {
	return s.store.GetIntervention(ctx, id)
}

// CreateIntervention creates an intervention and records an audit entry.
func (s *InterventionService) CreateIntervention(
	ctx context.Context, req models.CreateInterventionRequest,
) (*models.Intervention, error) {
	it, err := s.store.CreateIntervention(ctx, req)
	if err != nil {
		return nil, err
	}

	s.audit.record("intervention.create", models.EntityIntervention, it.ID, domain.ActorFrom(ctx),
		map[string]any{"equipment_id": it.EquipmentID, "title": it.Title})

	return it, nil
}

// UpdateInterventionStatus changes the status and records an audit entry.
func (s *InterventionService) UpdateInterventionStatus(
	ctx context.Context, id string, req models.UpdateInterventionStatusRequest,
) (*models.Intervention, error) {
	it, err := s.store.UpdateInterventionStatus(ctx, id, req.Status, s.now())
	if err != nil {
		return nil, err
	}

	s.audit.record("intervention.status", models.EntityIntervention, id, domain.ActorFrom(ctx), map[string]any{"status": req.Status})

	return it, nil
}

// AddAction appends a technician action and records an audit entry.
func (s *InterventionService) AddAction(
	ctx context.Context, id string, req models.AddActionRequest,
) (*models.TechnicianAction, error) {
	a, err := s.store.AddAction(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.audit.record("intervention.action", models.EntityIntervention, id, req.Technician,
		map[string]any{"parts": len(req.Parts)})

	return a, nil
}
