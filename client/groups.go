package client

import (
	"context"
	"io"
	"net/url"
)

// GroupService handles equipment group operations.
type GroupService struct {
	c *Client
}

func groupPath(id string) string {
	return "/api/v1/groups/" + url.PathEscape(id)
}

// List returns every group.
func (s *GroupService) List(ctx context.Context) ([]EquipmentGroup, error) {
	var resp struct {
		Groups []EquipmentGroup `json:"groups"`
	}
	if err := s.c.get(ctx, "/api/v1/groups", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

// Get returns a single group by ID.
func (s *GroupService) Get(ctx context.Context, id string) (*EquipmentGroup, error) {
	var g EquipmentGroup
	if err := s.c.get(ctx, groupPath(id), nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Create creates a new group.
func (s *GroupService) Create(ctx context.Context, req *GroupRequest) (*EquipmentGroup, error) {
	var g EquipmentGroup
	if err := s.c.post(ctx, "/api/v1/groups", req, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Update replaces the name and description of a group.
func (s *GroupService) Update(ctx context.Context, id string, req *GroupRequest) (*EquipmentGroup, error) {
	var g EquipmentGroup
	if err := s.c.put(ctx, groupPath(id), req, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Delete removes a group and its memberships.
func (s *GroupService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, groupPath(id), nil, nil)
}

// Equipment returns the IDs of the equipment in the group.
func (s *GroupService) Equipment(ctx context.Context, id string) ([]string, error) {
	var resp struct {
		EquipmentIDs []string `json:"equipment_ids"`
	}
	if err := s.c.get(ctx, groupPath(id)+"/equipment", nil, &resp); err != nil {
		return nil, err
	}
	return resp.EquipmentIDs, nil
}

// UploadImage replaces the group image.
func (s *GroupService) UploadImage(ctx context.Context, id, filename string, r io.Reader) (*EquipmentGroup, error) {
	var g EquipmentGroup
	if err := s.c.upload(ctx, groupPath(id)+"/image", filename, r, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// DeleteImage removes the group image.
func (s *GroupService) DeleteImage(ctx context.Context, id string) (*EquipmentGroup, error) {
	var g EquipmentGroup
	if err := s.c.del(ctx, groupPath(id)+"/image", nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}
