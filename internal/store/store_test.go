package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/db"
	"github.com/gmaohq/gmao/internal/db/migrations"
	"github.com/gmaohq/gmao/internal/dbpool"
	"github.com/gmaohq/gmao/internal/models"
	"github.com/gmaohq/gmao/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var sharedEnv *testEnv

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if sharedEnv != nil {
		return sharedEnv
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbURL, dbpool.Options{MaxConns: 4, ApplicationName: "gmao-store-test"})
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		t.Fatalf("migrating test DB: %v", err)
	}

	sharedEnv = &testEnv{
		pool: pool,
		log:  log,
	}

	return sharedEnv
}

// setupTestBase returns a Base on the shared test database.
func setupTestBase(t *testing.T) store.Base {
	t.Helper()

	env := getTestEnv(t)

	return store.Base{Pool: env.pool, Log: env.log}
}

// newTestEquipment creates an equipment row removed when the test ends.
func newTestEquipment(t *testing.T, base store.Base, name string) *models.Equipment {
	t.Helper()

	req := models.CreateEquipmentRequest{
		ID:                "test-eq-" + uuid.New().String(),
		EquipmentDocument: models.EquipmentDocument{Name: name, Status: models.StatusOperational, HealthPercentage: 100},
	}

	e, err := store.NewEquipmentStore(base).CreateEquipment(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateEquipment: %v", err)
	}

	t.Cleanup(func() {
		base.Pool.Exec(context.Background(), "DELETE FROM equipment WHERE id = $1", e.ID) //nolint:errcheck // best-effort cleanup
	})

	return e
}

// newTestGroup creates a group row removed when the test ends.
func newTestGroup(t *testing.T, base store.Base, name string) *models.EquipmentGroup {
	t.Helper()

	g, err := store.NewGroupStore(base).CreateGroup(context.Background(), models.CreateGroupRequest{
		ID:   "test-grp-" + uuid.New().String(),
		Name: name,
	})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	t.Cleanup(func() {
		base.Pool.Exec(context.Background(), "DELETE FROM equipment_groups WHERE id = $1", g.ID) //nolint:errcheck // best-effort cleanup
	})

	return g
}
