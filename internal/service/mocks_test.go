package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func strPtr(s string) *string { return &s }

// mockEquipmentStore records calls and returns configured responses.
type mockEquipmentStore struct {
	mu    sync.Mutex
	calls []string

	listEquipment   func(ctx context.Context, opts models.EquipmentListOpts) ([]models.Equipment, bool, error)
	getEquipment    func(ctx context.Context, id string) (*models.Equipment, error)
	createEquipment func(ctx context.Context, req models.CreateEquipmentRequest) (*models.Equipment, error)
	updateEquipment func(ctx context.Context, id string, req models.UpdateEquipmentRequest) (*models.Equipment, error)
	deleteEquipment func(ctx context.Context, id string) (*string, error)
	setImage        func(ctx context.Context, id string, path *string) (*string, error)
}

func (m *mockEquipmentStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockEquipmentStore) ListEquipment(ctx context.Context, opts models.EquipmentListOpts) ([]models.Equipment, bool, error) {
	m.record("ListEquipment")
	return m.listEquipment(ctx, opts)
}

func (m *mockEquipmentStore) GetEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	m.record("GetEquipment")
	return m.getEquipment(ctx, id)
}

func (m *mockEquipmentStore) CreateEquipment(ctx context.Context, req models.CreateEquipmentRequest) (*models.Equipment, error) {
	m.record("CreateEquipment")
	return m.createEquipment(ctx, req)
}

func (m *mockEquipmentStore) UpdateEquipment(ctx context.Context, id string, req models.UpdateEquipmentRequest) (*models.Equipment, error) {
	m.record("UpdateEquipment")
	return m.updateEquipment(ctx, id, req)
}

func (m *mockEquipmentStore) DeleteEquipment(ctx context.Context, id string) (*string, error) {
	m.record("DeleteEquipment")
	return m.deleteEquipment(ctx, id)
}

func (m *mockEquipmentStore) SetEquipmentImage(ctx context.Context, id string, path *string) (*string, error) {
	m.record("SetEquipmentImage")
	return m.setImage(ctx, id, path)
}

// mockGroupStore returns configured responses.
type mockGroupStore struct {
	listGroups  func(ctx context.Context) ([]models.EquipmentGroup, error)
	getGroup    func(ctx context.Context, id string) (*models.EquipmentGroup, error)
	createGroup func(ctx context.Context, req models.CreateGroupRequest) (*models.EquipmentGroup, error)
	updateGroup func(ctx context.Context, id string, req models.UpdateGroupRequest) (*models.EquipmentGroup, error)
	deleteGroup func(ctx context.Context, id string) (*string, error)
	setImage    func(ctx context.Context, id string, path *string) (*string, error)
}

func (m *mockGroupStore) ListGroups(ctx context.Context) ([]models.EquipmentGroup, error) {
	return m.listGroups(ctx)
}

func (m *mockGroupStore) GetGroup(ctx context.Context, id string) (*models.EquipmentGroup, error) {
	return m.getGroup(ctx, id)
}

func (m *mockGroupStore) CreateGroup(ctx context.Context, req models.CreateGroupRequest) (*models.EquipmentGroup, error) {
	return m.createGroup(ctx, req)
}

func (m *mockGroupStore) UpdateGroup(ctx context.Context, id string, req models.UpdateGroupRequest) (*models.EquipmentGroup, error) {
	return m.updateGroup(ctx, id, req)
}

func (m *mockGroupStore) DeleteGroup(ctx context.Context, id string) (*string, error) {
	return m.deleteGroup(ctx, id)
}

func (m *mockGroupStore) SetGroupImage(ctx context.Context, id string, path *string) (*string, error) {
	return m.setImage(ctx, id, path)
}

// mockInterventionStore returns configured responses.
type mockInterventionStore struct {
	listInterventions func(ctx context.Context, opts models.InterventionListOpts) ([]models.Intervention, bool, error)
	getIntervention   func(ctx context.Context, id string) (*models.Intervention, error)
	create            func(ctx context.Context, req models.CreateInterventionRequest) (*models.Intervention, error)
	updateStatus      func(ctx context.Context, id, status string, now time.Time) (*models.Intervention, error)
	addAction         func(ctx context.Context, id string, req models.AddActionRequest) (*models.TechnicianAction, error)
}

func (m *mockInterventionStore) ListInterventions(ctx context.Context, opts models.InterventionListOpts) ([]models.Intervention, bool, error) {
	return m.listInterventions(ctx, opts)
}

func (m *mockInterventionStore) GetIntervention(ctx context.Context, id string) (*models.Intervention, error) {
	return m.getIntervention(ctx, id)
}

func (m *mockInterventionStore) CreateIntervention(ctx context.Context, req models.CreateInterventionRequest) (*models.Intervention, error) {
	return m.create(ctx, req)
}

func (m *mockInterventionStore) UpdateInterventionStatus(ctx context.Context, id, status string, now time.Time) (*models.Intervention, error) {
	return m.updateStatus(ctx, id, status, now)
}

func (m *mockInterventionStore) AddAction(ctx context.Context, id string, req models.AddActionRequest) (*models.TechnicianAction, error) {
	return m.addAction(ctx, id, req)
}

// mockHistoryStore returns configured responses.
type mockHistoryStore struct {
	listHistory func(ctx context.Context, q models.HistoryQuery) ([]models.HistoryEntry, bool, error)
}

func (m *mockHistoryStore) ListHistory(ctx context.Context, q models.HistoryQuery) ([]models.HistoryEntry, bool, error) {
	return m.listHistory(ctx, q)
}

// mockAuditor records audit calls.
type mockAuditor struct {
	mu    sync.Mutex
	calls []AuditJob

	err error
}

func (m *mockAuditor) RecordAudit(ctx context.Context, action, entityType, entityID, actor string, detail map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, AuditJob{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Actor:      actor,
		Detail:     detail,
	})
	return m.err
}

func (m *mockAuditor) getCalls() []AuditJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]AuditJob, len(m.calls))
	copy(cp, m.calls)
	return cp
}

// mockAuditEnqueuer records enqueued jobs synchronously.
type mockAuditEnqueuer struct {
	mu   sync.Mutex
	jobs []*AuditJob
}

func (m *mockAuditEnqueuer) Enqueue(job *AuditJob) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
}

func (m *mockAuditEnqueuer) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j.Action)
	}
	return out
}

// mockFileStore keeps uploads in memory.
type mockFileStore struct {
	mu        sync.Mutex
	uploaded  []string
	deleted   []string
	uploadErr error
}

func (m *mockFileStore) Upload(_ context.Context, prefix, filename string, r io.Reader) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := prefix + "/" + filename
	m.uploaded = append(m.uploaded, p)
	return p, nil
}

func (m *mockFileStore) PublicURL(p string) string {
	return "http://files.test/" + p
}

func (m *mockFileStore) Delete(_ context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, p)
	return nil
}

// mockInvalidator counts invalidations.
type mockInvalidator struct {
	mu    sync.Mutex
	count int
}

func (m *mockInvalidator) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
}
