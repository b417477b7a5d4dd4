package filter

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/models"
)

// InterventionOptions selects interventions. The zero value matches everything.
type InterventionOptions struct {
	// Technician is a case-insensitive substring of the comma-joined
	// technician names.
	Technician string `json:"technician,omitempty"`
	// Status is an exact status, or "all"/empty for any.
	Status string `json:"status,omitempty"`
	// DateFrom is the inclusive lower bound on the scheduled date.
	DateFrom time.Time `json:"date_from,omitzero"`
	// DateTo is the inclusive upper bound, extended to the end of its day.
	DateTo time.Time `json:"date_to,omitzero"`
}

// HasActiveFilters reports whether any option differs from its default.
func (o InterventionOptions) HasActiveFilters() bool {
	return o.Technician != "" ||
		(o.Status != "" && o.Status != StatusAll) ||
		!o.DateFrom.IsZero() || !o.DateTo.IsZero()
}

// Interventions returns the interventions matching opts, preserving order.
// While a date bound is set, interventions with no scheduled date are
// excluded, and those whose scheduled date cannot be parsed are excluded with
// a warning on log.
func Interventions(
	items []models.Intervention, opts InterventionOptions, log logrus.FieldLogger,
) []models.Intervention {
	out := make([]models.Intervention, 0, len(items))
	if !opts.HasActiveFilters() {
		return append(out, items...)
	}

	dates := newDateRange(opts.DateFrom, opts.DateTo)
	status := opts.Status
	if status == StatusAll {
		status = ""
	}

	for _, it := range items {
		if opts.Technician != "" && !containsFold(strings.Join(it.Technicians, ", "), opts.Technician) {
			continue
		}
		if status != "" && it.Status != status {
			continue
		}
		if dates.active() && !scheduledWithin(it, dates, log) {
			continue
		}
		out = append(out, it)
	}

	return out
}

func scheduledWithin(it models.Intervention, dates dateRange, log logrus.FieldLogger) bool {
	if it.ScheduledDate == nil || strings.TrimSpace(*it.ScheduledDate) == "" {
		return false
	}

	t, err := ParseDate(*it.ScheduledDate)
	if err != nil {
		if log != nil {
			log.WithFields(logrus.Fields{
				"intervention_id": it.ID,
				"scheduled_date":  *it.ScheduledDate,
			}).Warn("skipping intervention with invalid scheduled date")
		}
		return false
	}

	return dates.contains(t)
}
