// Command gmaod serves the GMAO REST API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/api"
	"github.com/gmaohq/gmao/internal/config"
	"github.com/gmaohq/gmao/internal/db"
	"github.com/gmaohq/gmao/internal/db/migrations"
	"github.com/gmaohq/gmao/internal/dbpool"
	"github.com/gmaohq/gmao/internal/enrich"
	"github.com/gmaohq/gmao/internal/filestore"
	"github.com/gmaohq/gmao/internal/relations"
	"github.com/gmaohq/gmao/internal/service"
	"github.com/gmaohq/gmao/internal/store"
)

const (
	shutdownTimeout = 15 * time.Second
	auditQueueSize  = 1000
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("gmaod stopped")
	}
}

func run(log *logrus.Logger) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), dbpool.Options{MaxConns: int32(cfg.DBMaxConns)}) //nolint:gosec // bounded by config validation.
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	files, err := filestore.NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return fmt.Errorf("opening upload dir: %w", err)
	}

	base := store.Base{Pool: pool, Log: log}
	equipmentStore := store.NewEquipmentStore(base)
	groupStore := store.NewGroupStore(base)
	membershipStore := store.NewMembershipStore(base)

	cache := relations.NewCache(membershipStore, log)
	mutator := relations.NewMutator(membershipStore, cache, log)
	if err := cache.Refresh(ctx); err != nil {
		// The first request retries; the server still starts.
		log.WithError(err).Warn("initial membership load failed")
	}

	var lookup enrich.Lookup = enrich.NewCacheLookup(cache)
	if cfg.EnrichMode == config.EnrichModeStore {
		lookup = enrich.NewStoreLookup(membershipStore)
	}
	enricher := enrich.NewEnricher(lookup, cfg.EnrichConcurrency, log)

	auditStore := store.NewAuditStore(base)
	auditWorker := service.NewAuditWorker(auditStore, log, auditQueueSize)
	auditCtx, cancelAudit := context.WithCancel(context.Background())
	auditDone := make(chan struct{})
	go func() {
		defer close(auditDone)
		auditWorker.Run(auditCtx)
	}()

	equipmentSvc := service.NewEquipmentService(equipmentStore, files, cache, auditWorker, log)
	groupSvc := service.NewGroupService(groupStore, files, cache, auditWorker, log)

	handler := api.NewRouter(&api.RouterDeps{
		Log:               log,
		Pool:              pool,
		Relations:         cache,
		Equipment:         equipmentSvc,
		Groups:            groupSvc,
		Memberships:       service.NewMembershipService(cache, mutator, auditWorker, log),
		Enrichment:        service.NewEnrichmentService(equipmentStore, groupStore, enricher, log),
		History:           service.NewHistoryService(store.NewHistoryStore(base), equipmentStore, log),
		Interventions:     service.NewInterventionService(store.NewInterventionStore(base), auditWorker, log),
		References:        service.NewReferenceService(store.NewReferenceStore(base), log),
		Audit:             service.NewAuditService(auditStore, auditWorker, log),
		CORSOrigins:       cfg.CORSOrigins,
		Version:           config.Version,
		UploadDir:         cfg.UploadDir,
		ReferenceCacheTTL: cfg.ReferenceCacheTTL,
		RateLimit:         cfg.RateLimit,
		RateBurst:         cfg.RateBurst,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":        srv.Addr,
			"version":     config.Version,
			"enrich_mode": cfg.EnrichMode,
		}).Info("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		cancelAudit()
		<-auditDone
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown")
	}

	cancelAudit()
	<-auditDone
	log.Info("server stopped")
	return nil
}
