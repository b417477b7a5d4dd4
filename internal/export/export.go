// Package export renders filtered collections as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gmaohq/gmao/internal/models"
)

// ContentType is the MIME type of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const timestampLayout = "2006-01-02 15:04:05"

var (
	historyHeaders      = []any{"Date", "Field", "Old value", "New value", "Changed by"}
	interventionHeaders = []any{"ID", "Equipment", "Title", "Kind", "Status", "Scheduled", "Completed", "Technicians", "Actions"}
	equipmentHeaders    = []any{"ID", "Name", "Manufacturer", "Model", "Serial number", "Status", "Health %", "Next maintenance", "Groups"}
)

// sheet is one worksheet of string rows under a bold header row.
type sheet struct {
	name    string
	headers []any
	rows    [][]any
	widths  map[string]float64
}

// write renders s into a new workbook and streams it to w.
func (s sheet) write(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", s.name); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := f.SetSheetRow(s.name, "A1", &s.headers); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(s.headers))
	if err != nil {
		return fmt.Errorf("resolving header range: %w", err)
	}

	if err := f.SetCellStyle(s.name, "A1", lastCol+"1", style); err != nil {
		return fmt.Errorf("styling header row: %w", err)
	}

	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("resolving row %d: %w", i+2, err)
		}

		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	for col, width := range s.widths {
		if err := f.SetColWidth(s.name, col, col, width); err != nil {
			return fmt.Errorf("sizing column %s: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format("2006-01-02")
}

// History writes equipment history entries as a workbook.
func History(w io.Writer, entries []models.HistoryEntry) error {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{
			e.ChangedAt.Format(timestampLayout),
			e.FieldName,
			deref(e.OldValue),
			deref(e.NewValue),
			e.ChangedBy,
		})
	}

	return sheet{
		name:    "History",
		headers: historyHeaders,
		rows:    rows,
		widths:  map[string]float64{"A": 20, "B": 20, "C": 30, "D": 30, "E": 20},
	}.write(w)
}

// Interventions writes interventions as a workbook.
func Interventions(w io.Writer, items []models.Intervention) error {
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		rows = append(rows, []any{
			it.ID,
			it.EquipmentID,
			it.Title,
			it.Kind,
			it.Status,
			deref(it.ScheduledDate),
			deref(it.CompletedDate),
			strings.Join(it.Technicians, ", "),
			len(it.Actions),
		})
	}

	return sheet{
		name:    "Interventions",
		headers: interventionHeaders,
		rows:    rows,
		widths:  map[string]float64{"A": 38, "B": 38, "C": 40, "F": 14, "G": 14, "H": 30},
	}.write(w)
}

// Equipment writes equipment records as a workbook.
func Equipment(w io.Writer, items []models.Equipment) error {
	rows := make([][]any, 0, len(items))
	for _, e := range items {
		rows = append(rows, []any{
			e.ID,
			e.Name,
			e.Manufacturer,
			e.Model,
			e.SerialNumber,
			e.Status,
			strconv.Itoa(e.HealthPercentage),
			formatDate(e.NextMaintenance),
			strings.Join(e.GroupIDs, ", "),
		})
	}

	return sheet{
		name:    "Equipment",
		headers: equipmentHeaders,
		rows:    rows,
		widths:  map[string]float64{"A": 38, "B": 30, "C": 20, "D": 20, "E": 20, "H": 16, "I": 40},
	}.write(w)
}
