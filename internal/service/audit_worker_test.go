package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gmaohq/gmao/internal/models"
)

// startWorker runs aw until the returned stop func is called; stop waits for
// the drain to finish.
func startWorker(aw *AuditWorker) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		aw.Run(ctx)
		close(done)
	}()
	return func() {
		cancel()
		<-done
	}
}

func TestAuditWorker_RecordsMembershipEvent(t *testing.T) {
	auditor := &mockAuditor{}
	aw := NewAuditWorker(auditor, testLogger(), 10)
	stop := startWorker(aw)

	aw.Enqueue(&AuditJob{
		Action:     "membership.add",
		EntityType: models.EntityEquipment,
		EntityID:   "eq-1",
		Actor:      "alice",
		Detail:     map[string]any{"group_id": "g1"},
	})
	stop()

	calls := auditor.getCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 audit call, got %d", len(calls))
	}
	got := calls[0]
	if got.Action != "membership.add" || got.EntityID != "eq-1" || got.Actor != "alice" {
		t.Errorf("unexpected audit call %+v", got)
	}
	if got.Detail["group_id"] != "g1" {
		t.Errorf("detail = %v", got.Detail)
	}
}

func TestAuditWorker_DropsWhenFull(t *testing.T) {
	// Not started, so nothing drains.
	aw := NewAuditWorker(&mockAuditor{}, testLogger(), 2)

	aw.Enqueue(&AuditJob{Action: "equipment.create"})
	aw.Enqueue(&AuditJob{Action: "equipment.update"})

	done := make(chan struct{})
	go func() {
		aw.Enqueue(&AuditJob{Action: "equipment.delete"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}

	if len(aw.jobs) != 2 {
		t.Errorf("queue len = %d, want 2", len(aw.jobs))
	}
}

func TestAuditWorker_StopDrainsQueue(t *testing.T) {
	auditor := &mockAuditor{}
	aw := NewAuditWorker(auditor, testLogger(), 100)

	for _, id := range []string{"eq-1", "eq-2", "eq-3", "eq-4", "eq-5"} {
		aw.Enqueue(&AuditJob{Action: "equipment.delete", EntityType: models.EntityEquipment, EntityID: id})
	}

	stop := startWorker(aw)
	stop()

	if calls := auditor.getCalls(); len(calls) != 5 {
		t.Errorf("expected 5 drained audit calls, got %d", len(calls))
	}
}

func TestAuditWorker_StoreErrorDoesNotStopWorker(t *testing.T) {
	auditor := &mockAuditor{err: errors.New("audit table locked")}
	aw := NewAuditWorker(auditor, testLogger(), 10)
	stop := startWorker(aw)

	aw.Enqueue(&AuditJob{Action: "group.create"})
	aw.Enqueue(&AuditJob{Action: "group.delete"})
	stop()

	if calls := auditor.getCalls(); len(calls) != 2 {
		t.Errorf("expected both entries attempted, got %d", len(calls))
	}
}

func TestAuditWorker_WriteHasDeadline(t *testing.T) {
	auditor := &deadlineAuditor{}
	aw := NewAuditWorker(auditor, testLogger(), 1)
	aw.Enqueue(&AuditJob{Action: "equipment.create"})

	stop := startWorker(aw)
	stop()

	if !auditor.hadDeadline {
		t.Error("audit write should run with a deadline")
	}
}

type deadlineAuditor struct {
	hadDeadline bool
}

func (d *deadlineAuditor) RecordAudit(ctx context.Context, _, _, _, _ string, _ map[string]any) error {
	_, d.hadDeadline = ctx.Deadline()
	return nil
}
