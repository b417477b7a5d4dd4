package enrich_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmaohq/gmao/internal/enrich"
	"github.com/gmaohq/gmao/internal/models"
	"github.com/gmaohq/gmao/internal/relations"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

// mockRemote counts per-entity lookups and fails on configured IDs.
type mockRemote struct {
	groups    map[string][]string
	equipment map[string][]string
	failOn    string
	calls     atomic.Int64
	inFlight  atomic.Int64
	maxFlight atomic.Int64
	delay     time.Duration
}

func (m *mockRemote) enter() {
	n := m.inFlight.Add(1)
	for {
		cur := m.maxFlight.Load()
		if n <= cur || m.maxFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
}

func (m *mockRemote) GroupIDsForEquipment(_ context.Context, id string) ([]string, error) {
	m.calls.Add(1)
	m.enter()
	defer m.inFlight.Add(-1)
	if id == m.failOn {
		return nil, errors.New("lookup failed")
	}
	return m.groups[id], nil
}

func (m *mockRemote) EquipmentIDsForGroup(_ context.Context, id string) ([]string, error) {
	m.calls.Add(1)
	m.enter()
	defer m.inFlight.Add(-1)
	if id == m.failOn {
		return nil, errors.New("lookup failed")
	}
	return m.equipment[id], nil
}

type countingSource struct {
	mu    sync.Mutex
	rows  []models.Membership
	calls int
}

func (s *countingSource) ListMemberships(_ context.Context) ([]models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.rows, nil
}

func TestEnrich_EmptyInputIssuesNoLookups(t *testing.T) {
	remote := &mockRemote{}
	e := enrich.NewEnricher(enrich.NewStoreLookup(remote), 0, testLogger())

	res, err := e.Enrich(context.Background(), nil, []models.EquipmentGroup{})
	require.NoError(t, err)
	assert.NotNil(t, res.Equipment)
	assert.NotNil(t, res.Groups)
	assert.Empty(t, res.Equipment)
	assert.Empty(t, res.Groups)
	assert.Zero(t, remote.calls.Load())
}

func TestEnrich_EmptyInputSkipsCachePreparation(t *testing.T) {
	src := &countingSource{}
	cache := relations.NewCache(src, testLogger())
	e := enrich.NewEnricher(enrich.NewCacheLookup(cache), 0, testLogger())

	_, err := e.Enrich(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Zero(t, src.calls)
}

func TestEnrich_AttachesCounterparts(t *testing.T) {
	remote := &mockRemote{
		groups:    map[string][]string{"e1": {"g1", "g2"}},
		equipment: map[string][]string{"g1": {"e1"}},
	}
	e := enrich.NewEnricher(enrich.NewStoreLookup(remote), 0, testLogger())

	eq := []models.Equipment{{ID: "e1"}, {ID: "e2"}}
	grp := []models.EquipmentGroup{{ID: "g1"}}

	res, err := e.Enrich(context.Background(), eq, grp)
	require.NoError(t, err)

	assert.Equal(t, []string{"g1", "g2"}, res.Equipment[0].GroupIDs)
	assert.Equal(t, []string{}, res.Equipment[1].GroupIDs)
	assert.Equal(t, []string{"e1"}, res.Groups[0].EquipmentIDs)
	assert.EqualValues(t, 3, remote.calls.Load(), "one lookup per entity")

	// Inputs are not modified.
	assert.Nil(t, eq[0].GroupIDs)
	assert.Nil(t, grp[0].EquipmentIDs)
}

func TestEnrich_OneFailureRejectsWholePass(t *testing.T) {
	remote := &mockRemote{
		groups: map[string][]string{"e1": {"g1"}, "e2": {"g1"}, "e3": {"g1"}},
		failOn: "e2",
	}
	e := enrich.NewEnricher(enrich.NewStoreLookup(remote), 0, testLogger())

	eq := []models.Equipment{{ID: "e1"}, {ID: "e2"}, {ID: "e3"}}

	res, err := e.Enrich(context.Background(), eq, nil)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, models.ErrEnrichment)
	assert.Contains(t, err.Error(), "e2")

	// The pass joins every lookup before rejecting.
	assert.EqualValues(t, 3, remote.calls.Load())
}

func TestEnrich_LookupsRunConcurrently(t *testing.T) {
	remote := &mockRemote{delay: 20 * time.Millisecond}
	e := enrich.NewEnricher(enrich.NewStoreLookup(remote), 0, testLogger())

	eq := make([]models.Equipment, 8)
	for i := range eq {
		eq[i].ID = string(rune('a' + i))
	}

	_, err := e.Enrich(context.Background(), eq, nil)
	require.NoError(t, err)
	assert.Greater(t, remote.maxFlight.Load(), int64(1))
}

func TestEnrich_LimitBoundsFanOut(t *testing.T) {
	remote := &mockRemote{delay: 5 * time.Millisecond}
	e := enrich.NewEnricher(enrich.NewStoreLookup(remote), 2, testLogger())

	eq := make([]models.Equipment, 10)
	for i := range eq {
		eq[i].ID = string(rune('a' + i))
	}

	_, err := e.Enrich(context.Background(), eq, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, remote.maxFlight.Load(), int64(2))
	assert.EqualValues(t, 10, remote.calls.Load())
}

func TestEnrich_CacheLookupUsesSingleBulkFetch(t *testing.T) {
	src := &countingSource{rows: []models.Membership{
		{EquipmentID: "e1", GroupID: "g1"},
		{EquipmentID: "e2", GroupID: "g1"},
		{EquipmentID: "e2", GroupID: "g2"},
	}}
	cache := relations.NewCache(src, testLogger())
	e := enrich.NewEnricher(enrich.NewCacheLookup(cache), 0, testLogger())

	res, err := e.Enrich(context.Background(),
		[]models.Equipment{{ID: "e1"}, {ID: "e2"}, {ID: "e3"}},
		[]models.EquipmentGroup{{ID: "g1"}, {ID: "g2"}},
	)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, []string{"g1"}, res.Equipment[0].GroupIDs)
	assert.Equal(t, []string{"g1", "g2"}, res.Equipment[1].GroupIDs)
	assert.Equal(t, []string{}, res.Equipment[2].GroupIDs)
	assert.Equal(t, []string{"e1", "e2"}, res.Groups[0].EquipmentIDs)
	assert.Equal(t, []string{"e2"}, res.Groups[1].EquipmentIDs)

	// A second pass reuses the loaded cache.
	_, err = e.EnrichGroups(context.Background(), []models.EquipmentGroup{{ID: "g1"}})
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)
}

type failingSource struct{}

func (failingSource) ListMemberships(context.Context) ([]models.Membership, error) {
	return nil, errors.New("unreachable")
}

func TestEnrich_CachePreparationFailureRejectsPass(t *testing.T) {
	cache := relations.NewCache(failingSource{}, testLogger())
	e := enrich.NewEnricher(enrich.NewCacheLookup(cache), 0, testLogger())

	_, err := e.EnrichEquipment(context.Background(), []models.Equipment{{ID: "e1"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrEnrichment)
	assert.ErrorIs(t, err, models.ErrRemoteFetch)
}
