package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/filestore"
	"github.com/gmaohq/gmao/internal/httputil"
	"github.com/gmaohq/gmao/internal/metrics"
	"github.com/gmaohq/gmao/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationError  = "validation_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeUpstreamError    = "upstream_error"
	ErrCodeEnrichmentFailed = "enrichment_failed"
	ErrCodeInternalError    = "internal_error"
	ErrCodeRateLimited      = "rate_limited"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

var notFoundErrors = []error{
	models.ErrEquipmentNotFound,
	models.ErrGroupNotFound,
	models.ErrInterventionNotFound,
	models.ErrImageNotFound,
}

// respondServiceError maps a service error to its HTTP response. Anything
// unrecognised is logged and reported as an internal error.
func respondServiceError(c *gin.Context, log *logrus.Logger, err error, op string) {
	for _, nf := range notFoundErrors {
		if errors.Is(err, nf) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, nf.Error())
			return
		}
	}

	switch {
	case errors.Is(err, models.ErrValidation):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
	case errors.Is(err, filestore.ErrUnsupportedType), errors.Is(err, filestore.ErrInvalidPath):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case errors.Is(err, models.ErrConflict):
		respondError(c, http.StatusConflict, ErrCodeConflict, "resource already exists")
	case errors.Is(err, models.ErrEnrichment):
		log.WithError(err).Warn(op)
		respondError(c, http.StatusBadGateway, ErrCodeEnrichmentFailed, "enrichment pass failed")
	case errors.Is(err, models.ErrRemoteFetch), errors.Is(err, models.ErrRemoteWrite):
		log.WithError(err).Error(op)
		respondError(c, http.StatusBadGateway, ErrCodeUpstreamError, "backing store unavailable")
	default:
		log.WithError(err).Error(op)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
