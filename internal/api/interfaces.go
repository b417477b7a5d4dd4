package api

import (
	"github.com/gmaohq/gmao/internal/domain"
)

// Handler dependencies are the canonical service interfaces.
type (
	EquipmentService    = domain.EquipmentService
	GroupService        = domain.GroupService
	MembershipService   = domain.MembershipService
	EnrichmentService   = domain.EnrichmentService
	HistoryService      = domain.HistoryService
	InterventionService = domain.InterventionService
	ReferenceService    = domain.ReferenceService
	AuditService        = domain.AuditService
)

// RelationStatus reports the state of the cached membership relation.
type RelationStatus interface {
	Version() uint64
	Err() error
}
