package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/domain"
	"github.com/gmaohq/gmao/internal/models"
	"github.com/gmaohq/gmao/internal/relations"
)

// Compile-time check: *MembershipService must satisfy domain.MembershipService.
var _ domain.MembershipService = (*MembershipService)(nil)

// MembershipService serves the cached relation and applies membership
// mutations through the Mutator.
type MembershipService struct {
	cache   *relations.Cache
	mutator *relations.Mutator
	audit   auditTrail
	log     *logrus.Logger
}

// NewMembershipService creates a MembershipService.
func NewMembershipService(
	cache *relations.Cache, mutator *relations.Mutator, auditWorker AuditEnqueuer, log *logrus.Logger,
) *MembershipService {
	return &MembershipService{
		cache:   cache,
		mutator: mutator,
		audit:   auditTrail{worker: auditWorker},
		log:     log,
	}
}

func (s *MembershipService) state() *domain.MembershipState {
	st := &domain.MembershipState{Snapshot: s.cache.Snapshot()}
	if err := s.cache.Err(); err != nil {
		st.Error = err.Error()
	}
	return st
}

// ListRelations returns the cached relation, loading it first if needed. A
// failed load with nothing cached is returned as an error; otherwise the
// failure is reported in the state and the cached list is served.
func (s *MembershipService) ListRelations(ctx context.Context) (*domain.MembershipState, error) {
	if err := s.cache.Ensure(ctx); err != nil && s.cache.Version() == 0 {
		return nil, err
	}

	return s.state(), nil
}

// Refresh forces a full refetch. A failure keeps the cached list and is
// reported in the state.
func (s *MembershipService) Refresh(ctx context.Context) (*domain.MembershipState, error) {
	if err := s.cache.Refresh(ctx); err != nil && s.cache.Version() == 0 {
		return nil, err
	}

	return s.state(), nil
}

// AddMembership adds the pair and records an audit entry attributed to the
// context actor.
func (s *MembershipService) AddMembership(
	ctx context.Context, equipmentID, groupID string,
) (*relations.MutationResult, error) {
	res, err := s.mutator.AddMembership(ctx, equipmentID, groupID)
	if err != nil {
		return nil, err
	}

	s.audit.record("membership.add", models.EntityEquipment, equipmentID, domain.ActorFrom(ctx), map[string]any{"group_id": groupID})

	return res, nil
}

// RemoveMembership removes the pair and records an audit entry.
func (s *MembershipService) RemoveMembership(
	ctx context.Context, equipmentID, groupID string,
) (*relations.MutationResult, error) {
	res, err := s.mutator.RemoveMembership(ctx, equipmentID, groupID)
	if err != nil {
		return nil, err
	}

	s.audit.record("membership.remove", models.EntityEquipment, equipmentID, domain.ActorFrom(ctx), map[string]any{"group_id": groupID})

	return res, nil
}

// GroupsForEquipment returns the groups of an equipment from the cache.
func (s *MembershipService) GroupsForEquipment(ctx context.Context, equipmentID string) ([]string, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}

	return s.cache.GroupsFor(equipmentID), nil
}

// EquipmentForGroup returns the equipment of a group from the cache.
func (s *MembershipService) EquipmentForGroup(ctx context.Context, groupID string) ([]string, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}

	return s.cache.EquipmentFor(groupID), nil
}

// ensure loads the cache; a failed reload with a cached list serves stale data.
func (s *MembershipService) ensure(ctx context.Context) error {
	if err := s.cache.Ensure(ctx); err != nil && s.cache.Version() == 0 {
		return err
	}
	return nil
}
