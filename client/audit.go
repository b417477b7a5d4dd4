package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// Audit entity types accepted by the audit endpoint.
const (
	AuditEquipment    = "equipment"
	AuditGroup        = "group"
	AuditIntervention = "intervention"
	AuditLog          = "audit"
)

// AuditService reads and prunes the mutation trail. Membership changes are
// recorded against the equipment side of the pair.
type AuditService struct {
	c *Client
}

// Query returns audit entries newest first.
func (s *AuditService) Query(ctx context.Context, opts *AuditQueryOptions) ([]AuditEntry, bool, error) {
	params := url.Values{}
	if opts != nil {
		setIf(params, "entity_type", opts.EntityType)
		setIf(params, "entity_id", opts.EntityID)
		setIf(params, "action", opts.Action)
		if opts.Since != nil {
			params.Set("since", opts.Since.UTC().Format(time.RFC3339))
		}
		setPage(params, opts.Limit, opts.Offset)
	}

	var page struct {
		Data    []AuditEntry `json:"data"`
		HasMore bool         `json:"has_more"`
	}
	if err := s.c.get(ctx, "/api/v1/audit", params, &page); err != nil {
		return nil, false, err
	}
	return page.Data, page.HasMore, nil
}

// ForEquipment returns the trail of one equipment, membership changes
// included.
func (s *AuditService) ForEquipment(ctx context.Context, equipmentID string, limit int) ([]AuditEntry, bool, error) {
	return s.Query(ctx, &AuditQueryOptions{EntityType: AuditEquipment, EntityID: equipmentID, Limit: limit})
}

// Purge deletes entries older than retentionDays; zero keeps the server
// default. The server refuses retentions under a week.
func (s *AuditService) Purge(ctx context.Context, retentionDays int) (int, error) {
	params := url.Values{}
	if retentionDays > 0 {
		params.Set("retention_days", strconv.Itoa(retentionDays))
	}

	var res struct {
		Deleted int `json:"deleted"`
	}
	if err := s.c.del(ctx, "/api/v1/audit", params, &res); err != nil {
		return 0, err
	}
	return res.Deleted, nil
}
