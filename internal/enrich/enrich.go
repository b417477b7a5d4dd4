// Package enrich attaches relation-derived counterpart IDs to equipment and
// groups before they are handed to callers.
package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gmaohq/gmao/internal/metrics"
	"github.com/gmaohq/gmao/internal/models"
)

// Lookup resolves the counterpart IDs of a single entity.
type Lookup interface {
	GroupsFor(ctx context.Context, equipmentID string) ([]string, error)
	EquipmentFor(ctx context.Context, groupID string) ([]string, error)
}

// Preparer is implemented by lookups that need a setup step (such as a bulk
// fetch) once per pass, before any per-entity lookup runs.
type Preparer interface {
	Prepare(ctx context.Context) error
}

// Result is the output of one enrichment pass.
type Result struct {
	Equipment []models.Equipment      `json:"equipment"`
	Groups    []models.EquipmentGroup `json:"groups"`
}

// Enricher runs enrichment passes.
type Enricher struct {
	lookup Lookup
	limit  int
	log    *logrus.Logger
}

// NewEnricher creates an Enricher. A limit <= 0 leaves the fan-out unbounded.
func NewEnricher(lookup Lookup, limit int, log *logrus.Logger) *Enricher {
	return &Enricher{lookup: lookup, limit: limit, log: log}
}

// Enrich returns copies of equipment and groups with GroupIDs and EquipmentIDs
// attached. One lookup is issued per entity, all concurrently, and the pass
// waits for every one of them. If any lookup fails the whole pass fails and
// no partial result is returned.
func (e *Enricher) Enrich(
	ctx context.Context, equipment []models.Equipment, groups []models.EquipmentGroup,
) (*Result, error) {
	if len(equipment) == 0 && len(groups) == 0 {
		return &Result{Equipment: []models.Equipment{}, Groups: []models.EquipmentGroup{}}, nil
	}

	start := time.Now()

	res, err := e.run(ctx, equipment, groups)

	metrics.EnrichmentDuration.Observe(time.Since(start).Seconds())
	fields := logrus.Fields{
		"equipment": len(equipment),
		"groups":    len(groups),
		"duration":  time.Since(start).String(),
	}

	if err != nil {
		metrics.EnrichmentPasses.WithLabelValues("error").Inc()
		e.log.WithFields(fields).WithError(err).Warn("enrichment pass rejected")

		return nil, err
	}

	metrics.EnrichmentPasses.WithLabelValues("ok").Inc()
	e.log.WithFields(fields).Debug("enrich.pass")

	return res, nil
}

func (e *Enricher) run(
	ctx context.Context, equipment []models.Equipment, groups []models.EquipmentGroup,
) (*Result, error) {
	if p, ok := e.lookup.(Preparer); ok {
		if err := p.Prepare(ctx); err != nil {
			return nil, fmt.Errorf("%w: preparing lookups: %w", models.ErrEnrichment, err)
		}
	}

	outEq := make([]models.Equipment, len(equipment))
	copy(outEq, equipment)

	outGrp := make([]models.EquipmentGroup, len(groups))
	copy(outGrp, groups)

	// Plain Group: every lookup runs to completion even after a failure,
	// and Wait reports the first error.
	var g errgroup.Group
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i := range outEq {
		g.Go(func() error {
			metrics.EnrichmentLookups.Inc()

			ids, err := e.lookup.GroupsFor(ctx, outEq[i].ID)
			if err != nil {
				return fmt.Errorf("groups for equipment %q: %w", outEq[i].ID, err)
			}
			outEq[i].GroupIDs = nonNil(ids)

			return nil
		})
	}

	for i := range outGrp {
		g.Go(func() error {
			metrics.EnrichmentLookups.Inc()

			ids, err := e.lookup.EquipmentFor(ctx, outGrp[i].ID)
			if err != nil {
				return fmt.Errorf("equipment for group %q: %w", outGrp[i].ID, err)
			}
			outGrp[i].EquipmentIDs = nonNil(ids)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrEnrichment, err)
	}

	return &Result{Equipment: outEq, Groups: outGrp}, nil
}

// EnrichEquipment enriches equipment only.
func (e *Enricher) EnrichEquipment(ctx context.Context, equipment []models.Equipment) ([]models.Equipment, error) {
	res, err := e.Enrich(ctx, equipment, nil)
	if err != nil {
		return nil, err
	}
	return res.Equipment, nil
}

// EnrichGroups enriches groups only.
func (e *Enricher) EnrichGroups(ctx context.Context, groups []models.EquipmentGroup) ([]models.EquipmentGroup, error) {
	res, err := e.Enrich(ctx, nil, groups)
	if err != nil {
		return nil, err
	}
	return res.Groups, nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
