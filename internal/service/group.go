package service

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/domain"
	"github.com/gmaohq/gmao/internal/filestore"
	"github.com/gmaohq/gmao/internal/models"
)

// GroupStore is the data-access interface GroupService depends on.
type GroupStore interface {
	ListGroups(ctx context.Context) ([]models.EquipmentGroup, error)
	GetGroup(ctx context.Context, id string) (*models.EquipmentGroup, error)
	CreateGroup(ctx context.Context, req models.CreateGroupRequest) (*models.EquipmentGroup, error)
	UpdateGroup(ctx context.Context, id string, req models.UpdateGroupRequest) (*models.EquipmentGroup, error)
	DeleteGroup(ctx context.Context, id string) (*string, error)
	SetGroupImage(ctx context.Context, id string, path *string) (*string, error)
}

// Compile-time check: *GroupService must satisfy domain.GroupService.
var _ domain.GroupService = (*GroupService)(nil)

const groupImagePrefix = "groups"

// GroupService wraps GroupStore with image handling and audit logging.
type GroupService struct {
	store     GroupStore
	files     filestore.Store
	relations RelationInvalidator
	audit     auditTrail
	log       *logrus.Logger
}

// NewGroupService creates a GroupService.
func NewGroupService(
	store GroupStore,
	files filestore.Store,
	relations RelationInvalidator,
	auditWorker AuditEnqueuer,
	log *logrus.Logger,
) *GroupService {
	return &GroupService{
		store:     store,
		files:     files,
		relations: relations,
		audit:     auditTrail{worker: auditWorker},
		log:       log,
	}
}

func (s *GroupService) withImageURL(g *models.EquipmentGroup) *models.EquipmentGroup {
	if g != nil && g.ImagePath != nil && s.files != nil {
		u := s.files.PublicURL(*g.ImagePath)
		g.ImageURL = &u
	}
	return g
}

// ListGroups returns every group.
func (s *GroupService) ListGroups(ctx context.Context) ([]models.EquipmentGroup, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	for i := range groups {
		s.withImageURL(&groups[i])
	}

	return groups, nil
}

// GetGroup returns a single group.
func (s *GroupService) GetGroup(ctx context.Context, id string) (*models.EquipmentGroup, error) {
	g, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.withImageURL(g), nil
}

// CreateGroup creates a group and records an audit entry.
func (s *GroupService) CreateGroup(ctx context.Context, req models.CreateGroupRequest) (*models.EquipmentGroup, error) {
	g, err := s.store.CreateGroup(ctx, req)
	if err != nil {
		return nil, err
	}

	s.audit.record("group.create", models.EntityGroup, g.ID, domain.ActorFrom(ctx), map[string]any{"name": g.Name})

	return s.withImageURL(g), nil
}

// UpdateGroup updates a group and records an audit entry.
func (s *GroupService) UpdateGroup(
	ctx context.Context, id string, req models.UpdateGroupRequest,
) (*models.EquipmentGroup, error) {
	g, err := s.store.UpdateGroup(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.audit.record("group.update", models.EntityGroup, id, domain.ActorFrom(ctx), nil)

	return s.withImageURL(g), nil
}

// DeleteGroup removes a group with its image and memberships.
func (s *GroupService) DeleteGroup(ctx context.Context, id string) error {
	imagePath, err := s.store.DeleteGroup(ctx, id)
	if err != nil {
		return err
	}

	if s.relations != nil {
		s.relations.Invalidate()
	}

	removeBlob(ctx, s.files, imagePath, s.log)

	s.audit.record("group.delete", models.EntityGroup, id, domain.ActorFrom(ctx), nil)

	return nil
}

// SetGroupImage uploads an image and attaches it, replacing any previous one.
func (s *GroupService) SetGroupImage(
	ctx context.Context, id, filename string, r io.Reader,
) (*models.EquipmentGroup, error) {
	if err := replaceImage(ctx, s.files, groupImagePrefix, filename, r, s.log,
		func(p *string) (*string, error) { return s.store.SetGroupImage(ctx, id, p) },
	); err != nil {
		return nil, err
	}

	s.audit.record("group.image.set", models.EntityGroup, id, domain.ActorFrom(ctx), nil)

	return s.GetGroup(ctx, id)
}

// DeleteGroupImage detaches and removes the group image.
func (s *GroupService) DeleteGroupImage(ctx context.Context, id string) (*models.EquipmentGroup, error) {
	previous, err := s.store.SetGroupImage(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	if previous == nil {
		return nil, models.ErrImageNotFound
	}

	removeBlob(ctx, s.files, previous, s.log)

	s.audit.record("group.image.delete", models.EntityGroup, id, domain.ActorFrom(ctx), nil)

	return s.GetGroup(ctx, id)
}
