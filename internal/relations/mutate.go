package relations

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/models"
)

// Writer is the backing store for membership mutations.
//
// AddMembership must be idempotent: inserting an existing pair is a success.
// RemoveMembership must treat an absent pair as a success.
type Writer interface {
	AddMembership(ctx context.Context, equipmentID, groupID string) error
	RemoveMembership(ctx context.Context, equipmentID, groupID string) error
}

// MutationResult reports the outcome of the refresh that follows a successful write.
type MutationResult struct {
	// Version is the cache version after the refresh (unchanged if it failed).
	Version uint64 `json:"version"`

	// RefreshErr is the refresh failure, if any. The write itself succeeded.
	RefreshErr error `json:"-"`
}

// Mutator applies membership writes and refetches the whole relation afterwards.
// Concurrent calls are not sequenced; the last refresh to finish wins.
type Mutator struct {
	writer Writer
	cache  *Cache
	log    *logrus.Logger
}

// NewMutator creates a Mutator writing through writer and refreshing cache.
func NewMutator(writer Writer, cache *Cache, log *logrus.Logger) *Mutator {
	return &Mutator{writer: writer, cache: cache, log: log}
}

// AddMembership inserts the pair if absent, then refreshes the cache.
func (m *Mutator) AddMembership(ctx context.Context, equipmentID, groupID string) (*MutationResult, error) {
	if err := m.writer.AddMembership(ctx, equipmentID, groupID); err != nil {
		return nil, writeFailure("adding membership", err)
	}

	return m.refresh(ctx, "membership.add", equipmentID, groupID), nil
}

// RemoveMembership deletes the pair (no-op if absent), then refreshes the cache.
func (m *Mutator) RemoveMembership(ctx context.Context, equipmentID, groupID string) (*MutationResult, error) {
	if err := m.writer.RemoveMembership(ctx, equipmentID, groupID); err != nil {
		return nil, writeFailure("removing membership", err)
	}

	return m.refresh(ctx, "membership.remove", equipmentID, groupID), nil
}

func (m *Mutator) refresh(ctx context.Context, op, equipmentID, groupID string) *MutationResult {
	m.cache.Invalidate()

	res := &MutationResult{}
	if err := m.cache.Refresh(ctx); err != nil {
		res.RefreshErr = err
	}
	res.Version = m.cache.Version()

	m.log.WithFields(logrus.Fields{
		"equipment_id": equipmentID,
		"group_id":     groupID,
		"version":      res.Version,
		"refreshed":    res.RefreshErr == nil,
	}).Debug(op)

	return res
}

// writeFailure keeps typed store errors (conflict, not found) and marks
// everything else as a remote write failure.
func writeFailure(op string, err error) error {
	switch {
	case errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrEquipmentNotFound),
		errors.Is(err, models.ErrGroupNotFound),
		errors.Is(err, models.ErrRemoteWrite):
		return err
	default:
		return models.WriteError(op, err)
	}
}
