package main

import (
	"testing"

	"github.com/gmaohq/gmao/client"
)

func TestReadinessChecks(t *testing.T) {
	ready := &client.ReadyResponse{
		Status: "ready",
		Checks: map[string]string{"schema": "ok", "database": "ok", "relations": "degraded"},
		Pool:   &client.PoolStats{Total: 20, InUse: 20, Max: 20},
	}

	got := readinessChecks(ready)
	if len(got) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(got))
	}

	wantNames := []string{"Ready: database", "Ready: relations", "Ready: schema", "Ready: pool"}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Errorf("check %d = %q, want %q", i, got[i].Name, name)
		}
	}

	if got[1].Passed {
		t.Error("degraded relations should not pass")
	}
	if got[3].Passed {
		t.Error("an exhausted pool should not pass")
	}
}

func TestReadinessChecksWithoutPool(t *testing.T) {
	got := readinessChecks(&client.ReadyResponse{Checks: map[string]string{"database": "ok"}})
	if len(got) != 1 || !got[0].Passed {
		t.Errorf("unexpected checks %+v", got)
	}
}
