package api_test

import (
	"context"
	"io"

	"github.com/gmaohq/gmao/internal/domain"
	"github.com/gmaohq/gmao/internal/enrich"
	"github.com/gmaohq/gmao/internal/filter"
	"github.com/gmaohq/gmao/internal/models"
	"github.com/gmaohq/gmao/internal/relations"
)

// mockEquipmentSvc implements api.EquipmentService for testing.
type mockEquipmentSvc struct {
	listFn        func(ctx context.Context, opts models.EquipmentListOpts) ([]models.Equipment, bool, error)
	getFn         func(ctx context.Context, id string) (*models.Equipment, error)
	createFn      func(ctx context.Context, req models.CreateEquipmentRequest) (*models.Equipment, error)
	updateFn      func(ctx context.Context, id string, req models.UpdateEquipmentRequest) (*models.Equipment, error)
	deleteFn      func(ctx context.Context, id string) error
	setImageFn    func(ctx context.Context, id, filename string, r io.Reader) (*models.Equipment, error)
	deleteImageFn func(ctx context.Context, id string) (*models.Equipment, error)
}

func (m *mockEquipmentSvc) ListEquipment(ctx context.Context, opts models.EquipmentListOpts) ([]models.Equipment, bool, error) {
	return m.listFn(ctx, opts)
}

func (m *mockEquipmentSvc) GetEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	return m.getFn(ctx, id)
}

func (m *mockEquipmentSvc) CreateEquipment(ctx context.Context, req models.CreateEquipmentRequest) (*models.Equipment, error) {
	return m.createFn(ctx, req)
}

func (m *mockEquipmentSvc) UpdateEquipment(ctx context.Context, id string, req models.UpdateEquipmentRequest) (*models.Equipment, error) {
	return m.updateFn(ctx, id, req)
}

func (m *mockEquipmentSvc) DeleteEquipment(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockEquipmentSvc) SetEquipmentImage(ctx context.Context, id, filename string, r io.Reader) (*models.Equipment, error) {
	return m.setImageFn(ctx, id, filename, r)
}

func (m *mockEquipmentSvc) DeleteEquipmentImage(ctx context.Context, id string) (*models.Equipment, error) {
	return m.deleteImageFn(ctx, id)
}

// mockMembershipSvc implements api.MembershipService for testing.
type mockMembershipSvc struct {
	listFn      func(ctx context.Context) (*domain.MembershipState, error)
	refreshFn   func(ctx context.Context) (*domain.MembershipState, error)
	addFn       func(ctx context.Context, equipmentID, groupID string) (*relations.MutationResult, error)
	removeFn    func(ctx context.Context, equipmentID, groupID string) (*relations.MutationResult, error)
	groupsFn    func(ctx context.Context, equipmentID string) ([]string, error)
	equipmentFn func(ctx context.Context, groupID string) ([]string, error)
}

func (m *mockMembershipSvc) ListRelations(ctx context.Context) (*domain.MembershipState, error) {
	return m.listFn(ctx)
}

func (m *mockMembershipSvc) Refresh(ctx context.Context) (*domain.MembershipState, error) {
	return m.refreshFn(ctx)
}

func (m *mockMembershipSvc) AddMembership(ctx context.Context, equipmentID, groupID string) (*relations.MutationResult, error) {
	return m.addFn(ctx, equipmentID, groupID)
}

func (m *mockMembershipSvc) RemoveMembership(ctx context.Context, equipmentID, groupID string) (*relations.MutationResult, error) {
	return m.removeFn(ctx, equipmentID, groupID)
}

func (m *mockMembershipSvc) GroupsForEquipment(ctx context.Context, equipmentID string) ([]string, error) {
	return m.groupsFn(ctx, equipmentID)
}

func (m *mockMembershipSvc) EquipmentForGroup(ctx context.Context, groupID string) ([]string, error) {
	return m.equipmentFn(ctx, groupID)
}

// mockEnrichmentSvc implements api.EnrichmentService for testing.
type mockEnrichmentSvc struct {
	allFn       func(ctx context.Context, opts models.EquipmentListOpts) (*enrich.Result, error)
	equipmentFn func(ctx context.Context, items []models.Equipment) ([]models.Equipment, error)
}

func (m *mockEnrichmentSvc) EnrichAll(ctx context.Context, opts models.EquipmentListOpts) (*enrich.Result, error) {
	return m.allFn(ctx, opts)
}

func (m *mockEnrichmentSvc) EnrichEquipment(ctx context.Context, items []models.Equipment) ([]models.Equipment, error) {
	return m.equipmentFn(ctx, items)
}

// mockHistorySvc implements api.HistoryService for testing.
type mockHistorySvc struct {
	listFn func(ctx context.Context, equipmentID string, opts filter.HistoryOptions) ([]models.HistoryEntry, error)
}

func (m *mockHistorySvc) ListHistory(ctx context.Context, equipmentID string, opts filter.HistoryOptions) ([]models.HistoryEntry, error) {
	return m.listFn(ctx, equipmentID, opts)
}

// mockInterventionSvc implements api.InterventionService for testing.
type mockInterventionSvc struct {
	listFn      func(ctx context.Context, list models.InterventionListOpts, opts filter.InterventionOptions) ([]models.Intervention, bool, error)
	getFn       func(ctx context.Context, id string) (*models.Intervention, error)
	createFn    func(ctx context.Context, req models.CreateInterventionRequest) (*models.Intervention, error)
	statusFn    func(ctx context.Context, id string, req models.UpdateInterventionStatusRequest) (*models.Intervention, error)
	addActionFn func(ctx context.Context, id string, req models.AddActionRequest) (*models.TechnicianAction, error)
}

func (m *mockInterventionSvc) ListInterventions(
	ctx context.Context, list models.InterventionListOpts, opts filter.InterventionOptions,
) ([]models.Intervention, bool, error) {
	return m.listFn(ctx, list, opts)
}

func (m *mockInterventionSvc) GetIntervention(ctx context.Context, id string) (*models.Intervention, error) {
	return m.getFn(ctx, id)
}

func (m *mockInterventionSvc) CreateIntervention(ctx context.Context, req models.CreateInterventionRequest) (*models.Intervention, error) {
	return m.createFn(ctx, req)
}

func (m *mockInterventionSvc) UpdateInterventionStatus(
	ctx context.Context, id string, req models.UpdateInterventionStatusRequest,
) (*models.Intervention, error) {
	return m.statusFn(ctx, id, req)
}

func (m *mockInterventionSvc) AddAction(ctx context.Context, id string, req models.AddActionRequest) (*models.TechnicianAction, error) {
	return m.addActionFn(ctx, id, req)
}

// mockReferenceSvc implements api.ReferenceService for testing.
type mockReferenceSvc struct {
	buildingsCalls int
}

func (m *mockReferenceSvc) ListBuildings(context.Context) ([]models.Building, error) {
	m.buildingsCalls++
	return []models.Building{{ID: "b1", Name: "Main"}}, nil
}

func (m *mockReferenceSvc) ListServices(context.Context, string) ([]models.Service, error) {
	return []models.Service{}, nil
}

func (m *mockReferenceSvc) ListLocations(context.Context, string) ([]models.Location, error) {
	return []models.Location{}, nil
}

// mockAuditSvc implements api.AuditService for testing.
type mockAuditSvc struct {
	lastOpts  models.AuditQueryOpts
	lastActor string
	queryFn   func(opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
	purgeFn   func(days int) (int, error)
}

func (m *mockAuditSvc) QueryAudit(_ context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error) {
	m.lastOpts = opts
	if m.queryFn != nil {
		return m.queryFn(opts)
	}
	return []models.AuditEntry{}, false, nil
}

func (m *mockAuditSvc) PurgeOldEntries(ctx context.Context, days int) (int, error) {
	m.lastActor = domain.ActorFrom(ctx)
	if m.purgeFn != nil {
		return m.purgeFn(days)
	}
	return 0, nil
}
