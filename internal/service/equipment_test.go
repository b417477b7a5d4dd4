package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/gmaohq/gmao/internal/models"
)

func TestEquipmentService_CreateRecordsAudit(t *testing.T) {
	st := &mockEquipmentStore{
		createEquipment: func(_ context.Context, req models.CreateEquipmentRequest) (*models.Equipment, error) {
			return &models.Equipment{ID: req.ID, Name: req.Name}, nil
		},
	}
	aw := &mockAuditEnqueuer{}
	svc := NewEquipmentService(st, &mockFileStore{}, nil, aw, testLogger())

	e, err := svc.CreateEquipment(context.Background(), models.CreateEquipmentRequest{
		ID:                "e1",
		EquipmentDocument: models.EquipmentDocument{Name: "Pump"},
	})
	if err != nil {
		t.Fatalf("CreateEquipment: %v", err)
	}
	if e.ID != "e1" {
		t.Errorf("ID = %q, want e1", e.ID)
	}
	if got := aw.actions(); !slices.Equal(got, []string{"equipment.create"}) {
		t.Errorf("audit actions = %v", got)
	}
}

func TestEquipmentService_GetAttachesImageURL(t *testing.T) {
	st := &mockEquipmentStore{
		getEquipment: func(_ context.Context, id string) (*models.Equipment, error) {
			return &models.Equipment{ID: id, ImagePath: strPtr("equipment/a.png")}, nil
		},
	}
	svc := NewEquipmentService(st, &mockFileStore{}, nil, nil, testLogger())

	e, err := svc.GetEquipment(context.Background(), "e1")
	if err != nil {
		t.Fatalf("GetEquipment: %v", err)
	}
	if e.ImageURL == nil || *e.ImageURL != "http://files.test/equipment/a.png" {
		t.Errorf("ImageURL = %v", e.ImageURL)
	}
}

func TestEquipmentService_DeleteInvalidatesRelationsAndRemovesImage(t *testing.T) {
	st := &mockEquipmentStore{
		deleteEquipment: func(_ context.Context, _ string) (*string, error) {
			return strPtr("equipment/old.png"), nil
		},
	}
	files := &mockFileStore{}
	inv := &mockInvalidator{}
	svc := NewEquipmentService(st, files, inv, nil, testLogger())

	if err := svc.DeleteEquipment(context.Background(), "e1"); err != nil {
		t.Fatalf("DeleteEquipment: %v", err)
	}
	if inv.count != 1 {
		t.Errorf("invalidations = %d, want 1", inv.count)
	}
	if !slices.Equal(files.deleted, []string{"equipment/old.png"}) {
		t.Errorf("deleted blobs = %v", files.deleted)
	}
}

func TestEquipmentService_DeleteNotFoundLeavesRelations(t *testing.T) {
	st := &mockEquipmentStore{
		deleteEquipment: func(_ context.Context, _ string) (*string, error) {
			return nil, models.ErrEquipmentNotFound
		},
	}
	inv := &mockInvalidator{}
	svc := NewEquipmentService(st, &mockFileStore{}, inv, nil, testLogger())

	err := svc.DeleteEquipment(context.Background(), "missing")
	if !errors.Is(err, models.ErrEquipmentNotFound) {
		t.Errorf("err = %v, want ErrEquipmentNotFound", err)
	}
	if inv.count != 0 {
		t.Errorf("invalidations = %d, want 0", inv.count)
	}
}

func TestEquipmentService_SetImageReplacesPrevious(t *testing.T) {
	st := &mockEquipmentStore{
		setImage: func(_ context.Context, _ string, _ *string) (*string, error) {
			return strPtr("equipment/old.png"), nil
		},
		getEquipment: func(_ context.Context, id string) (*models.Equipment, error) {
			return &models.Equipment{ID: id}, nil
		},
	}
	files := &mockFileStore{}
	svc := NewEquipmentService(st, files, nil, nil, testLogger())

	if _, err := svc.SetEquipmentImage(context.Background(), "e1", "new.png", strings.NewReader("x")); err != nil {
		t.Fatalf("SetEquipmentImage: %v", err)
	}
	if !slices.Equal(files.uploaded, []string{"equipment/new.png"}) {
		t.Errorf("uploaded = %v", files.uploaded)
	}
	if !slices.Equal(files.deleted, []string{"equipment/old.png"}) {
		t.Errorf("deleted = %v", files.deleted)
	}
}

func TestEquipmentService_SetImageFailureRemovesUpload(t *testing.T) {
	st := &mockEquipmentStore{
		setImage: func(_ context.Context, _ string, _ *string) (*string, error) {
			return nil, models.ErrEquipmentNotFound
		},
	}
	files := &mockFileStore{}
	svc := NewEquipmentService(st, files, nil, nil, testLogger())

	_, err := svc.SetEquipmentImage(context.Background(), "missing", "new.png", strings.NewReader("x"))
	if !errors.Is(err, models.ErrEquipmentNotFound) {
		t.Fatalf("err = %v, want ErrEquipmentNotFound", err)
	}
	if !slices.Equal(files.deleted, []string{"equipment/new.png"}) {
		t.Errorf("deleted = %v, want the new upload", files.deleted)
	}
}

func TestEquipmentService_DeleteImageWithoutImage(t *testing.T) {
	st := &mockEquipmentStore{
		setImage: func(_ context.Context, _ string, _ *string) (*string, error) {
			return nil, nil
		},
	}
	svc := NewEquipmentService(st, &mockFileStore{}, nil, nil, testLogger())

	_, err := svc.DeleteEquipmentImage(context.Background(), "e1")
	if !errors.Is(err, models.ErrImageNotFound) {
		t.Errorf("err = %v, want ErrImageNotFound", err)
	}
}

func TestEquipmentService_SetImageWithoutFileStore(t *testing.T) {
	svc := NewEquipmentService(&mockEquipmentStore{}, nil, nil, nil, testLogger())

	_, err := svc.SetEquipmentImage(context.Background(), "e1", "a.png", strings.NewReader("x"))
	if !errors.Is(err, errNoFileStore) {
		t.Errorf("err = %v, want errNoFileStore", err)
	}
}
