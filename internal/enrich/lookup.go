package enrich

import (
	"context"

	"github.com/gmaohq/gmao/internal/relations"
)

// CacheLookup derives lookups from the shared relation cache, so a pass costs
// at most one bulk fetch regardless of how many entities it covers.
type CacheLookup struct {
	cache *relations.Cache
}

// NewCacheLookup creates a CacheLookup over cache.
func NewCacheLookup(cache *relations.Cache) *CacheLookup {
	return &CacheLookup{cache: cache}
}

// Prepare loads the cache if it was never loaded or has been invalidated.
func (l *CacheLookup) Prepare(ctx context.Context) error {
	return l.cache.Ensure(ctx)
}

// GroupsFor implements Lookup.
func (l *CacheLookup) GroupsFor(_ context.Context, equipmentID string) ([]string, error) {
	return l.cache.GroupsFor(equipmentID), nil
}

// EquipmentFor implements Lookup.
func (l *CacheLookup) EquipmentFor(_ context.Context, groupID string) ([]string, error) {
	return l.cache.EquipmentFor(groupID), nil
}

// RemoteStore answers per-entity membership queries against the backing store.
type RemoteStore interface {
	GroupIDsForEquipment(ctx context.Context, equipmentID string) ([]string, error)
	EquipmentIDsForGroup(ctx context.Context, groupID string) ([]string, error)
}

// StoreLookup issues one backing-store round trip per entity.
type StoreLookup struct {
	store RemoteStore
}

// NewStoreLookup creates a StoreLookup over store.
func NewStoreLookup(store RemoteStore) *StoreLookup {
	return &StoreLookup{store: store}
}

// GroupsFor implements Lookup.
func (l *StoreLookup) GroupsFor(ctx context.Context, equipmentID string) ([]string, error) {
	return l.store.GroupIDsForEquipment(ctx, equipmentID)
}

// EquipmentFor implements Lookup.
func (l *StoreLookup) EquipmentFor(ctx context.Context, groupID string) ([]string, error) {
	return l.store.EquipmentIDsForGroup(ctx, groupID)
}
