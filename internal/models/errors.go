package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingEquipmentID = errors.New("equipment_id is required")
	ErrMissingGroupID     = errors.New("group_id is required")
	ErrValidation         = errors.New("validation failed")
)

// Sentinel errors for entity lookups.
var (
	ErrEquipmentNotFound    = errors.New("equipment not found")
	ErrGroupNotFound        = errors.New("equipment group not found")
	ErrInterventionNotFound = errors.New("intervention not found")
	ErrImageNotFound        = errors.New("image not found")
)

// ErrConflict indicates a unique constraint violation the store did not absorb
// (maps to HTTP 409 Conflict).
var ErrConflict = errors.New("conflict")

// Backing store failures. Callers wrap the underlying cause alongside these so
// both errors.Is(err, ErrRemoteFetch) and the driver error remain inspectable.
var (
	// ErrRemoteFetch marks a failed read. Cached data is retained.
	ErrRemoteFetch = errors.New("remote fetch failed")

	// ErrRemoteWrite marks a failed mutation. No cached state is modified.
	ErrRemoteWrite = errors.New("remote write failed")

	// ErrEnrichment marks a rejected enrichment pass. No partial result is surfaced.
	ErrEnrichment = errors.New("enrichment failed")
)

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}

// FetchError wraps err as a remote read failure for op.
func FetchError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrRemoteFetch, err)
}

// WriteError wraps err as a remote write failure for op.
func WriteError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrRemoteWrite, err)
}
