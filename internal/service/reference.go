package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/domain"
	"github.com/gmaohq/gmao/internal/models"
)

// ReferenceStore is the data-access interface ReferenceService depends on.
// It reuses domain.ReferenceService since the method sets are identical, avoiding duplication.
type ReferenceStore = domain.ReferenceService

// Compile-time check: *ReferenceService must satisfy domain.ReferenceService.
var _ domain.ReferenceService = (*ReferenceService)(nil)

// ReferenceService wraps ReferenceStore with context-aware logging.
type ReferenceService struct {
	store ReferenceStore
	log   *logrus.Logger
}

// NewReferenceService creates a ReferenceService.
func NewReferenceService(store ReferenceStore, log *logrus.Logger) *ReferenceService {
	return &ReferenceService{store: store, log: log}
}

// ListBuildings returns every building.
func (s *ReferenceService) ListBuildings(ctx context.Context) ([]models.Building, error) {
	s.log.Debug("reference.list_buildings")

	return s.store.ListBuildings(ctx)
}

// ListServices returns services, optionally for one building.
func (s *ReferenceService) ListServices(ctx context.Context, buildingID string) ([]models.Service, error) {
	s.log.WithField("building_id", buildingID).Debug("reference.list_services")

	return s.store.ListServices(ctx, buildingID)
}

// ListLocations returns locations, optionally for one service.
func (s *ReferenceService) ListLocations(ctx context.Context, serviceID string) ([]models.Location, error) {
	s.log.WithField("service_id", serviceID).Debug("reference.list_locations")

	return s.store.ListLocations(ctx, serviceID)
}
