// Package relations holds the equipment/group membership relation in memory
// and derives per-entity lookups from it.
//
// The Cache is a read-through copy of the membership table. It is only ever
// replaced wholesale by Refresh; mutations go to the backing store and are
// followed by a full refresh (see Mutator).
package relations

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/gmaohq/gmao/internal/metrics"
	"github.com/gmaohq/gmao/internal/models"
)

// Source is the backing store of the membership relation.
type Source interface {
	ListMemberships(ctx context.Context) ([]models.Membership, error)
}

// Snapshot is an immutable view of the cache at one version.
type Snapshot struct {
	Memberships []models.Membership `json:"memberships"`
	Version     uint64              `json:"version"`
	RefreshedAt time.Time           `json:"refreshed_at"`
	Stale       bool                `json:"stale"`
}

// Cache is the in-memory membership relation with derived indexes.
type Cache struct {
	source Source
	log    *logrus.Logger
	loads  singleflight.Group

	mu          sync.RWMutex
	list        []models.Membership
	byEquipment map[string][]string
	byGroup     map[string][]string
	version     uint64
	loaded      bool
	stale       bool
	refreshedAt time.Time
	lastErr     error
}

// NewCache creates an empty Cache. Nothing is fetched until Refresh or Ensure.
func NewCache(source Source, log *logrus.Logger) *Cache {
	return &Cache{
		source:      source,
		log:         log,
		byEquipment: map[string][]string{},
		byGroup:     map[string][]string{},
	}
}

// ListRelations refreshes the cache and returns the full current list.
// On failure the cached list is left unchanged and the error is recorded.
func (c *Cache) ListRelations(ctx context.Context) ([]models.Membership, error) {
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}

	return c.Snapshot().Memberships, nil
}

// Refresh replaces the cached list with a fresh bulk fetch.
func (c *Cache) Refresh(ctx context.Context) error {
	start := time.Now()

	list, err := c.source.ListMemberships(ctx)
	if err != nil {
		err = models.FetchError("refreshing memberships", err)

		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()

		metrics.RelationRefreshes.WithLabelValues("error").Inc()
		c.log.WithError(err).Warn("membership refresh failed, serving cached relation")

		return err
	}

	byEquipment, byGroup := index(list)

	c.mu.Lock()
	c.list = list
	c.byEquipment = byEquipment
	c.byGroup = byGroup
	c.version++
	c.loaded = true
	c.stale = false
	c.lastErr = nil
	c.refreshedAt = time.Now()
	version := c.version
	c.mu.Unlock()

	metrics.RelationRefreshes.WithLabelValues("ok").Inc()
	metrics.RelationVersion.Set(float64(version))

	c.log.WithFields(logrus.Fields{
		"memberships": len(list),
		"version":     version,
		"duration":    time.Since(start).String(),
	}).Debug("relations.refresh")

	return nil
}

// Invalidate marks the cached list as stale. The next Ensure refetches it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}

// ensureTimeout bounds a shared load, which no single caller can cancel.
const ensureTimeout = 30 * time.Second

// Ensure refreshes the cache if it was never loaded or has been invalidated.
// Concurrent callers share a single fetch. A caller whose ctx ends stops
// waiting with ctx.Err(); the fetch continues for the others.
func (c *Cache) Ensure(ctx context.Context) error {
	c.mu.RLock()
	fresh := c.loaded && !c.stale
	c.mu.RUnlock()

	if fresh {
		return nil
	}

	done := c.loads.DoChan("ensure", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ensureTimeout)
		defer cancel()
		return nil, c.Refresh(fetchCtx)
	})

	select {
	case res := <-done:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GroupsFor returns the group IDs paired with equipmentID in the cached list.
func (c *Cache) GroupsFor(equipmentID string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return clone(c.byEquipment[equipmentID])
}

// EquipmentFor returns the equipment IDs paired with groupID in the cached list.
func (c *Cache) EquipmentFor(groupID string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return clone(c.byGroup[groupID])
}

// Snapshot returns the cached list as of the last successful refresh.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list := make([]models.Membership, len(c.list))
	copy(list, c.list)

	return Snapshot{
		Memberships: list,
		Version:     c.version,
		RefreshedAt: c.refreshedAt,
		Stale:       c.stale,
	}
}

// Version returns the number of successful refreshes so far.
func (c *Cache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.version
}

// Err returns the error of the last refresh, or nil if it succeeded.
func (c *Cache) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastErr
}

// index builds both lookup directions, de-duplicated and sorted.
func index(list []models.Membership) (byEquipment, byGroup map[string][]string) {
	eqSets := make(map[string]map[string]struct{})
	grpSets := make(map[string]map[string]struct{})

	for _, m := range list {
		add(eqSets, m.EquipmentID, m.GroupID)
		add(grpSets, m.GroupID, m.EquipmentID)
	}

	return flatten(eqSets), flatten(grpSets)
}

func add(sets map[string]map[string]struct{}, key, val string) {
	s, ok := sets[key]
	if !ok {
		s = make(map[string]struct{})
		sets[key] = s
	}
	s[val] = struct{}{}
}

func flatten(sets map[string]map[string]struct{}) map[string][]string {
	out := make(map[string][]string, len(sets))
	for key, s := range sets {
		ids := make([]string, 0, len(s))
		for id := range s {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out[key] = ids
	}
	return out
}

// clone copies ids so callers can never alias the index. Always non-nil.
func clone(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
