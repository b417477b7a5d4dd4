package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/gmaohq/gmao/internal/models"
)

// GroupStore provides equipment group CRUD operations.
type GroupStore struct {
	Base
}

// NewGroupStore creates a new GroupStore.
func NewGroupStore(base Base) *GroupStore {
	return &GroupStore{Base: base}
}

// ListGroups returns every group ordered by name.
func (s *GroupStore) ListGroups(ctx context.Context) ([]models.EquipmentGroup, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args, err := psql.Select(groupColumns...).From("equipment_groups").OrderBy("name", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building group query: %w", err)
	}

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}

	return collect(rows, "group", scanGroup)
}

// GetGroup retrieves a single group by ID.
func (s *GroupStore) GetGroup(ctx context.Context, id string) (*models.EquipmentGroup, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args, err := psql.Select(groupColumns...).From("equipment_groups").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building group query: %w", err)
	}

	g, err := scanGroup(s.Pool.QueryRow(ctx, query, args...).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrGroupNotFound
		}

		return nil, fmt.Errorf("getting group: %w", err)
	}

	return g, nil
}

// CreateGroup inserts a new group and returns it.
func (s *GroupStore) CreateGroup(ctx context.Context, req models.CreateGroupRequest) (*models.EquipmentGroup, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args, err := psql.Insert("equipment_groups").
		Columns("id", "name", "description").
		Values(req.ID, req.Name, req.Description).
		Suffix("RETURNING " + joinColumns(groupColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building group insert: %w", err)
	}

	g, err := scanGroup(s.Pool.QueryRow(ctx, query, args...).Scan)
	if err != nil {
		return nil, fmt.Errorf("creating group: %w", pgError(err, nil))
	}

	return g, nil
}

// UpdateGroup replaces the writable fields of a group.
func (s *GroupStore) UpdateGroup(
	ctx context.Context, id string, req models.UpdateGroupRequest,
) (*models.EquipmentGroup, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args, err := psql.Update("equipment_groups").
		Set("name", req.Name).
		Set("description", req.Description).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(groupColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building group update: %w", err)
	}

	g, err := scanGroup(s.Pool.QueryRow(ctx, query, args...).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrGroupNotFound
		}

		return nil, fmt.Errorf("updating group: %w", err)
	}

	return g, nil
}

// DeleteGroup removes a group and, by cascade, its memberships. It returns
// the stored image path so the caller can remove the blob.
func (s *GroupStore) DeleteGroup(ctx context.Context, id string) (*string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var imagePath *string

	err := s.Pool.QueryRow(ctx, "DELETE FROM equipment_groups WHERE id = $1 RETURNING image_path", id).Scan(&imagePath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrGroupNotFound
		}

		return nil, fmt.Errorf("deleting group: %w", err)
	}

	return imagePath, nil
}

// SetGroupImage stores a new image path (nil clears it) and returns the
// previous one.
func (s *GroupStore) SetGroupImage(ctx context.Context, id string, path *string) (*string, error) {
	return setImagePath(ctx, s.Pool.QueryRow, "equipment_groups", id, path, models.ErrGroupNotFound)
}
