// Package domain defines the canonical service interfaces shared across API
// layers (REST handlers, client). Consumers should depend on these interfaces
// rather than re-declaring equivalent ones.
package domain

import (
	"context"
	"io"

	"github.com/gmaohq/gmao/internal/enrich"
	"github.com/gmaohq/gmao/internal/filter"
	"github.com/gmaohq/gmao/internal/models"
	"github.com/gmaohq/gmao/internal/relations"
)

// EquipmentService defines all equipment operations.
type EquipmentService interface {
	ListEquipment(ctx context.Context, opts models.EquipmentListOpts) ([]models.Equipment, bool, error)
	GetEquipment(ctx context.Context, id string) (*models.Equipment, error)
	CreateEquipment(ctx context.Context, req models.CreateEquipmentRequest) (*models.Equipment, error)
	UpdateEquipment(ctx context.Context, id string, req models.UpdateEquipmentRequest) (*models.Equipment, error)
	DeleteEquipment(ctx context.Context, id string) error
	SetEquipmentImage(ctx context.Context, id, filename string, r io.Reader) (*models.Equipment, error)
	DeleteEquipmentImage(ctx context.Context, id string) (*models.Equipment, error)
}

// GroupService defines all equipment group operations.
type GroupService interface {
	ListGroups(ctx context.Context) ([]models.EquipmentGroup, error)
	GetGroup(ctx context.Context, id string) (*models.EquipmentGroup, error)
	CreateGroup(ctx context.Context, req models.CreateGroupRequest) (*models.EquipmentGroup, error)
	UpdateGroup(ctx context.Context, id string, req models.UpdateGroupRequest) (*models.EquipmentGroup, error)
	DeleteGroup(ctx context.Context, id string) error
	SetGroupImage(ctx context.Context, id, filename string, r io.Reader) (*models.EquipmentGroup, error)
	DeleteGroupImage(ctx context.Context, id string) (*models.EquipmentGroup, error)
}

// MembershipService defines relation reads and membership mutations.
type MembershipService interface {
	ListRelations(ctx context.Context) (*MembershipState, error)
	Refresh(ctx context.Context) (*MembershipState, error)
	AddMembership(ctx context.Context, equipmentID, groupID string) (*relations.MutationResult, error)
	RemoveMembership(ctx context.Context, equipmentID, groupID string) (*relations.MutationResult, error)
	GroupsForEquipment(ctx context.Context, equipmentID string) ([]string, error)
	EquipmentForGroup(ctx context.Context, groupID string) ([]string, error)
}

// MembershipState is the relation as served to callers: the cached snapshot
// plus the error of the last refresh, if any.
type MembershipState struct {
	relations.Snapshot
	Error string `json:"error,omitempty"`
}

// EnrichmentService defines enrichment passes.
type EnrichmentService interface {
	EnrichAll(ctx context.Context, opts models.EquipmentListOpts) (*enrich.Result, error)
	EnrichEquipment(ctx context.Context, items []models.Equipment) ([]models.Equipment, error)
}

// HistoryService defines equipment field-history operations.
type HistoryService interface {
	ListHistory(ctx context.Context, equipmentID string, opts filter.HistoryOptions) ([]models.HistoryEntry, error)
}

// InterventionService defines intervention operations.
type InterventionService interface {
	ListInterventions(
		ctx context.Context, list models.InterventionListOpts, opts filter.InterventionOptions,
	) ([]models.Intervention, bool, error)
	GetIntervention(ctx context.Context, id string) (*models.Intervention, error)
	CreateIntervention(ctx context.Context, req models.CreateInterventionRequest) (*models.Intervention, error)
	UpdateInterventionStatus(ctx context.Context, id string, req models.UpdateInterventionStatusRequest) (*models.Intervention, error)
	AddAction(ctx context.Context, id string, req models.AddActionRequest) (*models.TechnicianAction, error)
}

// ReferenceService defines read-only reference data operations.
type ReferenceService interface {
	ListBuildings(ctx context.Context) ([]models.Building, error)
	ListServices(ctx context.Context, buildingID string) ([]models.Service, error)
	ListLocations(ctx context.Context, serviceID string) ([]models.Location, error)
}

// AuditService reads and prunes the audit log. Entries are written through
// Auditor, never by handlers.
type AuditService interface {
	QueryAudit(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
	PurgeOldEntries(ctx context.Context, retentionDays int) (int, error)
}

// Auditor is the minimal interface for recording audit entries.
// Used by services for fire-and-forget audit logging.
type Auditor interface {
	RecordAudit(ctx context.Context, action, entityType, entityID, actor string, detail map[string]any) error
}
