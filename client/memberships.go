package client

import (
	"context"
	"net/url"
)

// MembershipService handles the equipment/group membership relation.
type MembershipService struct {
	c *Client
}

// List returns the cached relation. A non-empty Error means the last refresh
// failed and the list may be stale.
func (s *MembershipService) List(ctx context.Context) (*MembershipState, error) {
	var st MembershipState
	if err := s.c.get(ctx, "/api/v1/memberships", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Refresh forces the server to refetch the relation.
func (s *MembershipService) Refresh(ctx context.Context) (*MembershipState, error) {
	var st MembershipState
	if err := s.c.post(ctx, "/api/v1/memberships/refresh", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Add puts an equipment into a group. Adding an existing pair succeeds.
func (s *MembershipService) Add(ctx context.Context, equipmentID, groupID string) (*MutationResult, error) {
	body := map[string]string{"equipment_id": equipmentID, "group_id": groupID}

	var res MutationResult
	if err := s.c.post(ctx, "/api/v1/memberships", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Remove takes an equipment out of a group. Removing an absent pair succeeds.
func (s *MembershipService) Remove(ctx context.Context, equipmentID, groupID string) (*MutationResult, error) {
	path := "/api/v1/memberships/" + url.PathEscape(equipmentID) + "/" + url.PathEscape(groupID)

	var res MutationResult
	if err := s.c.del(ctx, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
