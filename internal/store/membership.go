package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/gmaohq/gmao/internal/models"
)

// MembershipStore provides access to the equipment_group_members junction table.
type MembershipStore struct {
	Base
}

// NewMembershipStore creates a new MembershipStore.
func NewMembershipStore(base Base) *MembershipStore {
	return &MembershipStore{Base: base}
}

// ListMemberships reads the whole junction table.
func (s *MembershipStore) ListMemberships(ctx context.Context) ([]models.Membership, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		`SELECT equipment_id, group_id, created_at FROM equipment_group_members
		ORDER BY equipment_id, group_id`)
	if err != nil {
		return nil, fmt.Errorf("querying memberships: %w", err)
	}

	return collect(rows, "membership", func(scan func(dest ...any) error) (*models.Membership, error) {
		var m models.Membership
		if err := scan(&m.EquipmentID, &m.GroupID, &m.CreatedAt); err != nil {
			return nil, err
		}
		return &m, nil
	})
}

// AddMembership inserts the pair if absent. Adding an existing pair is a
// no-op. A missing equipment or group yields the matching not-found error.
func (s *MembershipStore) AddMembership(ctx context.Context, equipmentID, groupID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.Pool.Exec(ctx,
		`INSERT INTO equipment_group_members (equipment_id, group_id)
		VALUES ($1, $2)
		ON CONFLICT (equipment_id, group_id) DO NOTHING`,
		equipmentID, groupID,
	)
	if err != nil {
		return fmt.Errorf("inserting membership: %w", pgError(err, referenceNotFound))
	}

	return nil
}

// RemoveMembership deletes the pair. Removing an absent pair is a no-op.
func (s *MembershipStore) RemoveMembership(ctx context.Context, equipmentID, groupID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.Pool.Exec(ctx,
		"DELETE FROM equipment_group_members WHERE equipment_id = $1 AND group_id = $2",
		equipmentID, groupID,
	)
	if err != nil {
		return fmt.Errorf("deleting membership: %w", err)
	}

	return nil
}

// GroupIDsForEquipment returns the groups an equipment belongs to.
func (s *MembershipStore) GroupIDsForEquipment(ctx context.Context, equipmentID string) ([]string, error) {
	return s.counterparts(ctx, "group_id", sq.Eq{"equipment_id": equipmentID})
}

// EquipmentIDsForGroup returns the equipment that belong to a group.
func (s *MembershipStore) EquipmentIDsForGroup(ctx context.Context, groupID string) ([]string, error) {
	return s.counterparts(ctx, "equipment_id", sq.Eq{"group_id": groupID})
}

func (s *MembershipStore) counterparts(ctx context.Context, column string, where sq.Eq) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args, err := psql.Select(column).From("equipment_group_members").
		Where(where).OrderBy(column).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building membership query: %w", err)
	}

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying memberships: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0, 8)

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning membership row: %w", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating membership rows: %w", err)
	}

	return ids, nil
}
