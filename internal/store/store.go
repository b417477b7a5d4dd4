// Package store provides focused, single-concern data access stores for the
// maintenance backend.
//
// Each store owns one table family (equipment, groups, memberships,
// interventions, etc.) and embeds shared helpers (Pool, logger) via the Base
// struct. Stores never import each other; shared logic lives in this file or
// in dedicated helper files.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/dbpool"
	"github.com/gmaohq/gmao/internal/models"
)

const defaultQueryTimeout = 30 * time.Second

// PostgreSQL error codes mapped to domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// psql builds dollar-placeholder statements.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// beginTx starts a read-write transaction.
func (b *Base) beginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return tx, nil
}

// beginReadTx starts a read-only transaction.
func (b *Base) beginReadTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	return tx, nil
}

// pgError maps constraint violations onto domain errors. notFound is returned
// (wrapped with the constraint name) for foreign key violations; nil leaves
// them untouched.
func pgError(err error, notFound func(constraint string) error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", models.ErrConflict, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		if notFound != nil {
			return notFound(pgErr.ConstraintName)
		}
	}

	return err
}

// referenceNotFound maps a foreign key constraint on equipment or group
// columns to the matching not-found sentinel.
func referenceNotFound(constraint string) error {
	switch {
	case strings.Contains(constraint, "equipment_id"):
		return models.ErrEquipmentNotFound
	case strings.Contains(constraint, "group_id"):
		return models.ErrGroupNotFound
	default:
		return fmt.Errorf("%w: unknown reference (%s)", models.ErrValidation, constraint)
	}
}
