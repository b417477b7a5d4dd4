package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/domain"
	"github.com/gmaohq/gmao/internal/filter"
	"github.com/gmaohq/gmao/internal/models"
)

// historyWindow is how many of the most recent entries are loaded before
// the history filter runs.
const historyWindow = 1000

// HistoryStore is the data-access interface HistoryService depends on.
type HistoryStore interface {
	ListHistory(ctx context.Context, q models.HistoryQuery) ([]models.HistoryEntry, bool, error)
}

// EquipmentGetter resolves a single equipment record.
type EquipmentGetter interface {
	GetEquipment(ctx context.Context, id string) (*models.Equipment, error)
}

// Compile-time check: *HistoryService must satisfy domain.HistoryService.
var _ domain.HistoryService = (*HistoryService)(nil)

// HistoryService loads equipment history and applies the history filter.
type HistoryService struct {
	store     HistoryStore
	equipment EquipmentGetter
	log       *logrus.Logger
}

// NewHistoryService creates a HistoryService. equipment is used to report a
// missing equipment as not found rather than as an empty history.
func NewHistoryService(store HistoryStore, equipment EquipmentGetter, log *logrus.Logger) *HistoryService {
	return &HistoryService{store: store, equipment: equipment, log: log}
}

// ListHistory returns the equipment's history, newest first, filtered by opts.
func (s *HistoryService) ListHistory(
	ctx context.Context, equipmentID string, opts filter.HistoryOptions,
) ([]models.HistoryEntry, error) {
	if s.equipment != nil {
		if _, err := s.equipment.GetEquipment(ctx, equipmentID); err != nil {
			return nil, err
		}
	}

	entries, truncated, err := s.store.ListHistory(ctx, models.HistoryQuery{
		EquipmentID: equipmentID,
		Limit:       historyWindow,
	})
	if err != nil {
		return nil, err
	}

	out := filter.History(entries, opts)

	s.log.WithFields(logrus.Fields{
		"equipment_id": equipmentID,
		"loaded":       len(entries),
		"matched":      len(out),
		"truncated":    truncated,
		"filtered":     opts.HasActiveFilters(),
	}).Debug("history.list")

	return out, nil
}
