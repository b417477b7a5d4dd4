package filter

import (
	"time"

	"github.com/gmaohq/gmao/internal/models"
)

// HistoryOptions selects equipment history entries. The zero value matches
// everything.
type HistoryOptions struct {
	// Technician is a case-insensitive substring of the actor name.
	Technician string `json:"technician,omitempty"`
	// Field is a case-insensitive substring of the changed field name.
	Field string `json:"field,omitempty"`
	// DateFrom is the inclusive lower bound on the change timestamp.
	DateFrom time.Time `json:"date_from,omitzero"`
	// DateTo is the inclusive upper bound, extended to the end of its day.
	DateTo time.Time `json:"date_to,omitzero"`
}

// HasActiveFilters reports whether any option differs from its default.
func (o HistoryOptions) HasActiveFilters() bool {
	return o.Technician != "" || o.Field != "" || !o.DateFrom.IsZero() || !o.DateTo.IsZero()
}

// History returns the entries matching opts, preserving order. The input is
// not modified.
func History(entries []models.HistoryEntry, opts HistoryOptions) []models.HistoryEntry {
	out := make([]models.HistoryEntry, 0, len(entries))
	if !opts.HasActiveFilters() {
		return append(out, entries...)
	}

	dates := newDateRange(opts.DateFrom, opts.DateTo)

	for _, e := range entries {
		if opts.Technician != "" && !containsFold(e.ChangedBy, opts.Technician) {
			continue
		}
		if opts.Field != "" && !containsFold(e.FieldName, opts.Field) {
			continue
		}
		if !dates.contains(e.ChangedAt) {
			continue
		}
		out = append(out, e)
	}

	return out
}
