package service

import (
	"context"
	"testing"
	"time"

	"github.com/gmaohq/gmao/internal/filter"
	"github.com/gmaohq/gmao/internal/models"
)

func TestInterventionService_ListAppliesFilter(t *testing.T) {
	st := &mockInterventionStore{
		listInterventions: func(_ context.Context, _ models.InterventionListOpts) ([]models.Intervention, bool, error) {
			return []models.Intervention{
				{ID: "i1", Status: models.InterventionCompleted},
				{ID: "i2", Status: models.InterventionScheduled},
			}, true, nil
		},
	}
	svc := NewInterventionService(st, nil, testLogger())

	out, hasMore, err := svc.ListInterventions(context.Background(), models.InterventionListOpts{},
		filter.InterventionOptions{Status: models.InterventionCompleted})
	if err != nil {
		t.Fatalf("ListInterventions: %v", err)
	}
	if len(out) != 1 || out[0].ID != "i1" {
		t.Errorf("got %+v, want only i1", out)
	}
	if !hasMore {
		t.Error("hasMore should pass through from the store")
	}
}

func TestInterventionService_UpdateStatusUsesClock(t *testing.T) {
	fixed := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	var gotNow time.Time

	st := &mockInterventionStore{
		updateStatus: func(_ context.Context, id, status string, now time.Time) (*models.Intervention, error) {
			gotNow = now
			return &models.Intervention{ID: id, Status: status}, nil
		},
	}
	aw := &mockAuditEnqueuer{}
	svc := NewInterventionService(st, aw, testLogger())
	svc.now = func() time.Time { return fixed }

	it, err := svc.UpdateInterventionStatus(context.Background(), "i1",
		models.UpdateInterventionStatusRequest{Status: models.InterventionCompleted})
	if err != nil {
		t.Fatalf("UpdateInterventionStatus: %v", err)
	}
	if it.Status != models.InterventionCompleted || !gotNow.Equal(fixed) {
		t.Errorf("status = %q now = %v", it.Status, gotNow)
	}
	if len(aw.actions()) != 1 {
		t.Errorf("audit actions = %v", aw.actions())
	}
}
