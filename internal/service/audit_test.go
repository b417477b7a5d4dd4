package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/gmaohq/gmao/internal/domain"
	"github.com/gmaohq/gmao/internal/models"
)

type mockAuditQueryStore struct {
	queried int
	purged  int
	purge  func(days int) (int, error)
}

func (m *mockAuditQueryStore) QueryAudit(context.Context, models.AuditQueryOpts) ([]models.AuditEntry, bool, error) {
	m.queried++
	return nil, false, nil
}

func (m *mockAuditQueryStore) PurgeOldEntries(_ context.Context, days int) (int, error) {
	m.purged++
	return m.purge(days)
}

func TestAuditService_PurgeRejectsShortRetention(t *testing.T) {
	st := &mockAuditQueryStore{purge: func(int) (int, error) { return 0, nil }}
	svc := NewAuditService(st, nil, testLogger())

	_, err := svc.PurgeOldEntries(context.Background(), 3)
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if st.purged != 0 {
		t.Error("store must not be called below the minimum retention")
	}
}

func TestAuditService_PurgeLogsActor(t *testing.T) {
	log, hook := test.NewNullLogger()
	st := &mockAuditQueryStore{purge: func(days int) (int, error) {
		if days != 30 {
			t.Errorf("days = %d, want 30", days)
		}
		return 12, nil
	}}
	worker := &mockAuditEnqueuer{}
	svc := NewAuditService(st, worker, log)

	ctx := domain.WithActor(context.Background(), "carol")
	deleted, err := svc.PurgeOldEntries(ctx, 30)
	if err != nil {
		t.Fatalf("PurgeOldEntries: %v", err)
	}
	if deleted != 12 {
		t.Errorf("deleted = %d, want 12", deleted)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.InfoLevel {
		t.Fatalf("expected an info log entry, got %v", entry)
	}
	if entry.Data["actor"] != "carol" || entry.Data["deleted"] != 12 {
		t.Errorf("log fields = %v", entry.Data)
	}

	if len(worker.jobs) != 1 {
		t.Fatalf("expected the purge to be audited, got %d jobs", len(worker.jobs))
	}
	job := worker.jobs[0]
	if job.Action != "audit.purge" || job.EntityType != models.EntityAudit || job.Actor != "carol" {
		t.Errorf("unexpected purge job %+v", job)
	}
}

func TestAuditService_EmptyPurgeNotAudited(t *testing.T) {
	worker := &mockAuditEnqueuer{}
	st := &mockAuditQueryStore{purge: func(int) (int, error) { return 0, nil }}
	svc := NewAuditService(st, worker, testLogger())

	if _, err := svc.PurgeOldEntries(context.Background(), 90); err != nil {
		t.Fatal(err)
	}
	if len(worker.jobs) != 0 {
		t.Errorf("expected no audit job for an empty purge, got %d", len(worker.jobs))
	}
}

func TestAuditService_QueryRejectsUnknownEntityType(t *testing.T) {
	st := &mockAuditQueryStore{}
	svc := NewAuditService(st, nil, testLogger())

	_, _, err := svc.QueryAudit(context.Background(), models.AuditQueryOpts{EntityType: "membership"})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if st.queried != 0 {
		t.Error("store must not be queried with an unknown entity type")
	}

	if _, _, err := svc.QueryAudit(context.Background(), models.AuditQueryOpts{EntityType: models.EntityAudit}); err != nil {
		t.Errorf("audit entity type should be accepted: %v", err)
	}
}

func TestAuditService_PurgeStoreError(t *testing.T) {
	boom := errors.New("connection reset")
	st := &mockAuditQueryStore{purge: func(int) (int, error) { return 0, boom }}
	svc := NewAuditService(st, nil, testLogger())

	if _, err := svc.PurgeOldEntries(context.Background(), 90); !errors.Is(err, boom) {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestServices_AttributeAuditToContextActor(t *testing.T) {
	ctx := domain.WithActor(context.Background(), "dave")

	eqStore := &mockEquipmentStore{
		createEquipment: func(_ context.Context, req models.CreateEquipmentRequest) (*models.Equipment, error) {
			return &models.Equipment{ID: req.ID, Name: req.Name}, nil
		},
	}
	eqAudit := &mockAuditEnqueuer{}
	eqSvc := NewEquipmentService(eqStore, &mockFileStore{}, nil, eqAudit, testLogger())
	if _, err := eqSvc.CreateEquipment(ctx, models.CreateEquipmentRequest{
		ID:                "eq-1",
		EquipmentDocument: models.EquipmentDocument{Name: "Chiller"},
	}); err != nil {
		t.Fatalf("CreateEquipment: %v", err)
	}

	grpStore := &mockGroupStore{
		deleteGroup: func(context.Context, string) (*string, error) { return nil, nil },
	}
	grpAudit := &mockAuditEnqueuer{}
	grpSvc := NewGroupService(grpStore, &mockFileStore{}, &mockInvalidator{}, grpAudit, testLogger())
	if err := grpSvc.DeleteGroup(ctx, "g1"); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}

	for name, aw := range map[string]*mockAuditEnqueuer{"equipment": eqAudit, "group": grpAudit} {
		if len(aw.jobs) != 1 {
			t.Fatalf("%s: expected 1 job, got %d", name, len(aw.jobs))
		}
		if aw.jobs[0].Actor != "dave" {
			t.Errorf("%s: actor = %q, want dave", name, aw.jobs[0].Actor)
		}
	}
	if eqAudit.jobs[0].EntityType != models.EntityEquipment || grpAudit.jobs[0].EntityType != models.EntityGroup {
		t.Errorf("entity types = %q, %q", eqAudit.jobs[0].EntityType, grpAudit.jobs[0].EntityType)
	}
}
