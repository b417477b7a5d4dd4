package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/export"
	"github.com/gmaohq/gmao/internal/filter"
)

// HistoryHandler serves equipment field-history endpoints.
type HistoryHandler struct {
	svc HistoryService
	log *logrus.Logger
}

// NewHistoryHandler creates a HistoryHandler with the given service and logger.
func NewHistoryHandler(svc HistoryService, log *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{svc: svc, log: log}
}

func historyOptions(c *gin.Context) (filter.HistoryOptions, error) {
	opts := filter.HistoryOptions{
		Technician: c.Query("technician"),
		Field:      c.Query("field"),
	}

	var err error
	if opts.DateFrom, err = parseDateQuery(c, "date_from"); err != nil {
		return opts, err
	}
	if opts.DateTo, err = parseDateQuery(c, "date_to"); err != nil {
		return opts, err
	}

	return opts, nil
}

// List handles GET /api/v1/equipment/:id/history.
func (h *HistoryHandler) List(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	opts, err := historyOptions(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	entries, err := h.svc.ListHistory(c.Request.Context(), id, opts)
	if err != nil {
		respondServiceError(c, h.log, err, "listing equipment history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history":            entries,
		"filters":            opts,
		"has_active_filters": opts.HasActiveFilters(),
	})
}

// Export handles GET /api/v1/equipment/:id/history/export.
func (h *HistoryHandler) Export(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	opts, err := historyOptions(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}

	entries, err := h.svc.ListHistory(c.Request.Context(), id, opts)
	if err != nil {
		respondServiceError(c, h.log, err, "exporting equipment history")
		return
	}

	var buf bytes.Buffer
	if err := export.History(&buf, entries); err != nil {
		respondServiceError(c, h.log, err, "rendering history export")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="history-%s.xlsx"`, id))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
