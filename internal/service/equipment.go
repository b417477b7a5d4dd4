package service

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/domain"
	"github.com/gmaohq/gmao/internal/filestore"
	"github.com/gmaohq/gmao/internal/models"
)

// EquipmentStore is the data-access interface EquipmentService depends on.
type EquipmentStore interface {
	ListEquipment(ctx context.Context, opts models.EquipmentListOpts) ([]models.Equipment, bool, error)
	GetEquipment(ctx context.Context, id string) (*models.Equipment, error)
	CreateEquipment(ctx context.Context, req models.CreateEquipmentRequest) (*models.Equipment, error)
	UpdateEquipment(ctx context.Context, id string, req models.UpdateEquipmentRequest) (*models.Equipment, error)
	DeleteEquipment(ctx context.Context, id string) (*string, error)
	SetEquipmentImage(ctx context.Context, id string, path *string) (*string, error)
}

// RelationInvalidator is notified when a write may have changed memberships
// indirectly (cascading deletes).
type RelationInvalidator interface {
	Invalidate()
}

// Compile-time check: *EquipmentService must satisfy domain.EquipmentService.
var _ domain.EquipmentService = (*EquipmentService)(nil)

const equipmentImagePrefix = "equipment"

// EquipmentService wraps EquipmentStore with image handling and audit logging.
type EquipmentService struct {
	store     EquipmentStore
	files     filestore.Store
	relations RelationInvalidator
	audit     auditTrail
	log       *logrus.Logger
}

// NewEquipmentService creates an EquipmentService.
func NewEquipmentService(
	store EquipmentStore,
	files filestore.Store,
	relations RelationInvalidator,
	auditWorker AuditEnqueuer,
	log *logrus.Logger,
) *EquipmentService {
	return &EquipmentService{
		store:     store,
		files:     files,
		relations: relations,
		audit:     auditTrail{worker: auditWorker},
		log:       log,
	}
}

func (s *EquipmentService) withImageURL(e *models.Equipment) *models.Equipment {
	if e != nil && e.ImagePath != nil && s.files != nil {
		u := s.files.PublicURL(*e.ImagePath)
		e.ImageURL = &u
	}
	return e
}

// ListEquipment returns a paginated list of equipment.
func (s *EquipmentService) ListEquipment(
	ctx context.Context, opts models.EquipmentListOpts,
) ([]models.Equipment, bool, error) {
	items, hasMore, err := s.store.ListEquipment(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	for i := range items {
		s.withImageURL(&items[i])
	}

	return items, hasMore, nil
}

// GetEquipment returns a single equipment record.
func (s *EquipmentService) GetEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	e, err := s.store.GetEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.withImageURL(e), nil
}

// CreateEquipment creates an equipment record and records an audit entry.
func (s *EquipmentService) CreateEquipment(
	ctx context.Context, req models.CreateEquipmentRequest,
) (*models.Equipment, error) {
	e, err := s.store.CreateEquipment(ctx, req)
	if err != nil {
		return nil, err
	}

	s.audit.record("equipment.create", models.EntityEquipment, e.ID, domain.ActorFrom(ctx), map[string]any{"name": e.Name})

	return s.withImageURL(e), nil
}

// UpdateEquipment replaces an equipment document and records an audit entry.
func (s *EquipmentService) UpdateEquipment(
	ctx context.Context, id string, req models.UpdateEquipmentRequest,
) (*models.Equipment, error) {
	e, err := s.store.UpdateEquipment(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"equipment_id": id,
		"changed_by":   req.ChangedBy,
	}).Debug("equipment.update")

	s.audit.record("equipment.update", models.EntityEquipment, id, req.ChangedBy, nil)

	return s.withImageURL(e), nil
}

// DeleteEquipment removes an equipment record with its image and memberships.
func (s *EquipmentService) DeleteEquipment(ctx context.Context, id string) error {
	imagePath, err := s.store.DeleteEquipment(ctx, id)
	if err != nil {
		return err
	}

	if s.relations != nil {
		s.relations.Invalidate()
	}

	removeBlob(ctx, s.files, imagePath, s.log)

	s.audit.record("equipment.delete", models.EntityEquipment, id, domain.ActorFrom(ctx), nil)

	return nil
}

// SetEquipmentImage uploads an image and attaches it, replacing any previous one.
func (s *EquipmentService) SetEquipmentImage(
	ctx context.Context, id, filename string, r io.Reader,
) (*models.Equipment, error) {
	if err := replaceImage(ctx, s.files, equipmentImagePrefix, filename, r, s.log,
		func(p *string) (*string, error) { return s.store.SetEquipmentImage(ctx, id, p) },
	); err != nil {
		return nil, err
	}

	s.audit.record("equipment.image.set", models.EntityEquipment, id, domain.ActorFrom(ctx), nil)

	return s.GetEquipment(ctx, id)
}

// DeleteEquipmentImage detaches and removes the equipment image.
func (s *EquipmentService) DeleteEquipmentImage(ctx context.Context, id string) (*models.Equipment, error) {
	previous, err := s.store.SetEquipmentImage(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	if previous == nil {
		return nil, models.ErrImageNotFound
	}

	removeBlob(ctx, s.files, previous, s.log)

	s.audit.record("equipment.image.delete", models.EntityEquipment, id, domain.ActorFrom(ctx), nil)

	return s.GetEquipment(ctx, id)
}
