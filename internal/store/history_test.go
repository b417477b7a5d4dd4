package store

import (
	"testing"
	"time"

	"github.com/gmaohq/gmao/internal/models"
)

func TestDiffDocuments(t *testing.T) {
	bldg := "b1"
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	oldDoc := models.EquipmentDocument{Name: "Pump", Status: models.StatusOperational, HealthPercentage: 90}
	newDoc := oldDoc
	newDoc.Status = models.StatusFaulty
	newDoc.HealthPercentage = 40
	newDoc.BuildingID = &bldg
	newDoc.LastMaintenance = &day

	diffs := diffDocuments(oldDoc, newDoc)

	want := map[string][2]string{
		"status":            {"operational", "faulty"},
		"health_percentage": {"90", "40"},
		"building_id":       {"<nil>", "b1"},
		"last_maintenance":  {"<nil>", "2024-03-01"},
	}

	if len(diffs) != len(want) {
		t.Fatalf("got %d diffs, want %d: %+v", len(diffs), len(want), diffs)
	}

	for _, d := range diffs {
		w, ok := want[d.field]
		if !ok {
			t.Errorf("unexpected diff on %q", d.field)
			continue
		}

		if got := deref(d.oldValue); got != w[0] {
			t.Errorf("%s old = %q, want %q", d.field, got, w[0])
		}

		if got := deref(d.newValue); got != w[1] {
			t.Errorf("%s new = %q, want %q", d.field, got, w[1])
		}
	}
}

func TestDiffDocumentsUnchanged(t *testing.T) {
	doc := models.EquipmentDocument{Name: "Pump", Status: models.StatusOperational}

	if diffs := diffDocuments(doc, doc); len(diffs) != 0 {
		t.Errorf("expected no diffs, got %+v", diffs)
	}
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}

	return *s
}
