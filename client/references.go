package client

import (
	"context"
	"net/url"
)

// ReferenceService reads buildings, services and locations.
type ReferenceService struct {
	c *Client
}

// Buildings returns every building.
func (s *ReferenceService) Buildings(ctx context.Context) ([]Building, error) {
	var resp struct {
		Buildings []Building `json:"buildings"`
	}
	if err := s.c.get(ctx, "/api/v1/references/buildings", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Buildings, nil
}

// Services returns the services, optionally restricted to one building.
func (s *ReferenceService) Services(ctx context.Context, buildingID string) ([]Service, error) {
	params := url.Values{}
	setIf(params, "building_id", buildingID)

	var resp struct {
		Services []Service `json:"services"`
	}
	if err := s.c.get(ctx, "/api/v1/references/services", params, &resp); err != nil {
		return nil, err
	}
	return resp.Services, nil
}

// Locations returns the locations, optionally restricted to one service.
func (s *ReferenceService) Locations(ctx context.Context, serviceID string) ([]Location, error) {
	params := url.Values{}
	setIf(params, "service_id", serviceID)

	var resp struct {
		Locations []Location `json:"locations"`
	}
	if err := s.c.get(ctx, "/api/v1/references/locations", params, &resp); err != nil {
		return nil, err
	}
	return resp.Locations, nil
}
