package client

import (
	"context"
	"net/url"
)

// InterventionService handles intervention operations.
type InterventionService struct {
	c *Client
}

func interventionPath(id string) string {
	return "/api/v1/interventions/" + url.PathEscape(id)
}

// List returns interventions matching f.
func (s *InterventionService) List(ctx context.Context, f *InterventionFilter) ([]Intervention, bool, error) {
	var resp struct {
		Interventions []Intervention `json:"interventions"`
		HasMore       bool           `json:"has_more"`
	}
	if err := s.c.get(ctx, "/api/v1/interventions", f.values(), &resp); err != nil {
		return nil, false, err
	}
	return resp.Interventions, resp.HasMore, nil
}

// Export returns the filtered interventions as an XLSX workbook.
func (s *InterventionService) Export(ctx context.Context, f *InterventionFilter) ([]byte, error) {
	return s.c.raw(ctx, "/api/v1/interventions/export", f.values())
}

// Get returns one intervention with its actions.
func (s *InterventionService) Get(ctx context.Context, id string) (*Intervention, error) {
	var it Intervention
	if err := s.c.get(ctx, interventionPath(id), nil, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// Create schedules a new intervention.
func (s *InterventionService) Create(ctx context.Context, req *CreateInterventionRequest) (*Intervention, error) {
	var it Intervention
	if err := s.c.post(ctx, "/api/v1/interventions", req, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// SetStatus changes the status of an intervention.
func (s *InterventionService) SetStatus(ctx context.Context, id, status string) (*Intervention, error) {
	var it Intervention
	if err := s.c.patch(ctx, interventionPath(id)+"/status", map[string]string{"status": status}, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// AddAction records technician work on an intervention.
func (s *InterventionService) AddAction(ctx context.Context, id string, req *AddActionRequest) (*TechnicianAction, error) {
	var a TechnicianAction
	if err := s.c.post(ctx, interventionPath(id)+"/actions", req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
