package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/domain"
	"github.com/gmaohq/gmao/internal/enrich"
	"github.com/gmaohq/gmao/internal/models"
)

// EquipmentLister loads the equipment an enrichment pass runs over.
type EquipmentLister interface {
	ListEquipment(ctx context.Context, opts models.EquipmentListOpts) ([]models.Equipment, bool, error)
}

// GroupLister loads the groups an enrichment pass runs over.
type GroupLister interface {
	ListGroups(ctx context.Context) ([]models.EquipmentGroup, error)
}

// Compile-time check: *EnrichmentService must satisfy domain.EnrichmentService.
var _ domain.EnrichmentService = (*EnrichmentService)(nil)

// EnrichmentService loads equipment and groups and runs enrichment passes over them.
type EnrichmentService struct {
	equipment EquipmentLister
	groups    GroupLister
	enricher  *enrich.Enricher
	log       *logrus.Logger
}

// NewEnrichmentService creates an EnrichmentService.
func NewEnrichmentService(
	equipment EquipmentLister, groups GroupLister, enricher *enrich.Enricher, log *logrus.Logger,
) *EnrichmentService {
	return &EnrichmentService{equipment: equipment, groups: groups, enricher: enricher, log: log}
}

// EnrichAll loads the equipment page selected by opts plus every group and
// enriches both in one pass.
func (s *EnrichmentService) EnrichAll(ctx context.Context, opts models.EquipmentListOpts) (*enrich.Result, error) {
	equipment, _, err := s.equipment.ListEquipment(ctx, opts)
	if err != nil {
		return nil, err
	}

	groups, err := s.groups.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"equipment": len(equipment),
		"groups":    len(groups),
	}).Debug("enrichment.enrich_all")

	return s.enricher.Enrich(ctx, equipment, groups)
}

// EnrichEquipment enriches an already loaded equipment list.
func (s *EnrichmentService) EnrichEquipment(ctx context.Context, items []models.Equipment) ([]models.Equipment, error) {
	return s.enricher.EnrichEquipment(ctx, items)
}
