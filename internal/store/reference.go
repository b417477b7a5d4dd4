package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/gmaohq/gmao/internal/models"
)

// ReferenceStore reads the building, service and location reference tables.
type ReferenceStore struct {
	Base
}

// NewReferenceStore creates a new ReferenceStore.
func NewReferenceStore(base Base) *ReferenceStore {
	return &ReferenceStore{Base: base}
}

// ListBuildings returns every building ordered by name.
func (s *ReferenceStore) ListBuildings(ctx context.Context) ([]models.Building, error) {
	return listReference(ctx, s, psql.Select("id", "name").From("buildings"), "building",
		func(scan func(dest ...any) error) (*models.Building, error) {
			var b models.Building
			if err := scan(&b.ID, &b.Name); err != nil {
				return nil, err
			}
			return &b, nil
		})
}

// ListServices returns services, optionally restricted to one building.
func (s *ReferenceStore) ListServices(ctx context.Context, buildingID string) ([]models.Service, error) {
	sel := psql.Select("id", "name", "building_id").From("services")
	if buildingID != "" {
		sel = sel.Where(sq.Eq{"building_id": buildingID})
	}

	return listReference(ctx, s, sel, "service",
		func(scan func(dest ...any) error) (*models.Service, error) {
			var v models.Service
			if err := scan(&v.ID, &v.Name, &v.BuildingID); err != nil {
				return nil, err
			}
			return &v, nil
		})
}

// ListLocations returns locations, optionally restricted to one service.
func (s *ReferenceStore) ListLocations(ctx context.Context, serviceID string) ([]models.Location, error) {
	sel := psql.Select("id", "name", "service_id").From("locations")
	if serviceID != "" {
		sel = sel.Where(sq.Eq{"service_id": serviceID})
	}

	return listReference(ctx, s, sel, "location",
		func(scan func(dest ...any) error) (*models.Location, error) {
			var l models.Location
			if err := scan(&l.ID, &l.Name, &l.ServiceID); err != nil {
				return nil, err
			}
			return &l, nil
		})
}

func listReference[T any](
	ctx context.Context,
	s *ReferenceStore,
	sel sq.SelectBuilder,
	what string,
	scanFn func(func(dest ...any) error) (*T, error),
) ([]T, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args, err := sel.OrderBy("name", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building %s query: %w", what, err)
	}

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %ss: %w", what, err)
	}

	return collect(rows, what, scanFn)
}
