package filter

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmaohq/gmao/internal/models"
)

func day(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string { return &s }

func historyFixture() []models.HistoryEntry {
	return []models.HistoryEntry{
		{ID: 1, ChangedBy: "Alice", FieldName: "status", ChangedAt: day("2024-01-05")},
		{ID: 2, ChangedBy: "Bob", FieldName: "status", ChangedAt: day("2024-02-10")},
	}
}

func ids(entries []models.HistoryEntry) []int64 {
	out := make([]int64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestHistory_TechnicianSubstringIgnoresCase(t *testing.T) {
	got := History(historyFixture(), HistoryOptions{Technician: "ali"})
	assert.Equal(t, []int64{1}, ids(got))

	got = History(historyFixture(), HistoryOptions{Technician: "BO"})
	assert.Equal(t, []int64{2}, ids(got))
}

func TestHistory_FieldSubstring(t *testing.T) {
	entries := append(historyFixture(),
		models.HistoryEntry{ID: 3, ChangedBy: "Carol", FieldName: "health_percentage", ChangedAt: day("2024-03-01")})

	got := History(entries, HistoryOptions{Field: "Health"})
	assert.Equal(t, []int64{3}, ids(got))
}

func TestHistory_DateRange(t *testing.T) {
	got := History(historyFixture(), HistoryOptions{
		DateFrom: day("2024-02-01"),
		DateTo:   day("2024-02-28"),
	})
	assert.Equal(t, []int64{2}, ids(got))
}

func TestHistory_UpperBoundCoversWholeDay(t *testing.T) {
	entries := []models.HistoryEntry{
		{ID: 1, ChangedBy: "Bob", FieldName: "status", ChangedAt: day("2024-02-10T23:00:00")},
		{ID: 2, ChangedBy: "Bob", FieldName: "status", ChangedAt: day("2024-02-11T00:00:00")},
	}

	got := History(entries, HistoryOptions{DateTo: day("2024-02-10")})
	assert.Equal(t, []int64{1}, ids(got))
}

func TestHistory_LowerBoundInclusive(t *testing.T) {
	got := History(historyFixture(), HistoryOptions{DateFrom: day("2024-01-05")})
	assert.Equal(t, []int64{1, 2}, ids(got))
}

func TestHistory_CombinedPredicates(t *testing.T) {
	got := History(historyFixture(), HistoryOptions{Technician: "bob", DateTo: day("2024-01-31")})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestHistory_NoFiltersReturnsCopy(t *testing.T) {
	in := historyFixture()
	got := History(in, HistoryOptions{})
	require.Len(t, got, 2)

	got[0].ChangedBy = "changed"
	assert.Equal(t, "Alice", in[0].ChangedBy)
}

func TestHistoryOptions_HasActiveFilters(t *testing.T) {
	assert.False(t, HistoryOptions{}.HasActiveFilters())
	assert.True(t, HistoryOptions{Technician: "a"}.HasActiveFilters())
	assert.True(t, HistoryOptions{Field: "status"}.HasActiveFilters())
	assert.True(t, HistoryOptions{DateFrom: day("2024-01-01")}.HasActiveFilters())
	assert.True(t, HistoryOptions{DateTo: day("2024-01-01")}.HasActiveFilters())
}

func interventionFixture() []models.Intervention {
	return []models.Intervention{
		{ID: "i1", Status: models.InterventionCompleted, Technicians: []string{"Alice Martin", "Bob"}, ScheduledDate: strPtr("2024-03-01")},
		{ID: "i2", Status: models.InterventionInProgress, Technicians: []string{"Carol"}, ScheduledDate: strPtr("2024-03-15")},
		{ID: "i3", Status: models.InterventionScheduled, Technicians: nil, ScheduledDate: nil},
		{ID: "i4", Status: models.InterventionCompleted, Technicians: []string{"Dan"}, ScheduledDate: strPtr("not a date")},
	}
}

func interventionIDs(items []models.Intervention) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestInterventions_StatusExactMatch(t *testing.T) {
	got := Interventions(interventionFixture(), InterventionOptions{Status: "completed"}, nil)
	assert.Equal(t, []string{"i1", "i4"}, interventionIDs(got))

	got = Interventions(interventionFixture(), InterventionOptions{Status: "complete"}, nil)
	assert.Empty(t, got)
}

func TestInterventions_StatusAllMatchesEverything(t *testing.T) {
	got := Interventions(interventionFixture(), InterventionOptions{Status: StatusAll}, nil)
	assert.Len(t, got, 4)
}

func TestInterventions_TechnicianSubstringAcrossNames(t *testing.T) {
	got := Interventions(interventionFixture(), InterventionOptions{Technician: "martin, b"}, nil)
	assert.Equal(t, []string{"i1"}, interventionIDs(got))

	got = Interventions(interventionFixture(), InterventionOptions{Technician: "CAROL"}, nil)
	assert.Equal(t, []string{"i2"}, interventionIDs(got))
}

func TestInterventions_DateRangeExcludesMissingAndInvalid(t *testing.T) {
	log, hook := logtest.NewNullLogger()

	got := Interventions(interventionFixture(), InterventionOptions{
		DateFrom: day("2024-03-01"),
		DateTo:   day("2024-03-15"),
	}, log)
	assert.Equal(t, []string{"i1", "i2"}, interventionIDs(got))

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "i4", entry.Data["intervention_id"])
}

func TestInterventions_UpperBoundCoversWholeDay(t *testing.T) {
	items := []models.Intervention{
		{ID: "a", ScheduledDate: strPtr("2024-03-15T18:30:00Z")},
		{ID: "b", ScheduledDate: strPtr("2024-03-16T00:00:00Z")},
	}

	got := Interventions(items, InterventionOptions{DateTo: day("2024-03-15")}, nil)
	assert.Equal(t, []string{"a"}, interventionIDs(got))
}

func TestInterventions_NoDateFilterKeepsUndated(t *testing.T) {
	log, hook := logtest.NewNullLogger()

	got := Interventions(interventionFixture(), InterventionOptions{Status: models.InterventionScheduled}, log)
	assert.Equal(t, []string{"i3"}, interventionIDs(got))
	assert.Empty(t, hook.AllEntries())
}

func TestInterventionOptions_HasActiveFilters(t *testing.T) {
	assert.False(t, InterventionOptions{}.HasActiveFilters())
	assert.False(t, InterventionOptions{Status: StatusAll}.HasActiveFilters())
	assert.True(t, InterventionOptions{Status: "completed"}.HasActiveFilters())
	assert.True(t, InterventionOptions{Technician: "x"}.HasActiveFilters())
	assert.True(t, InterventionOptions{DateFrom: day("2024-01-01")}.HasActiveFilters())
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2024-02-10", "2024-02-10T08:00:00", "2024-02-10 08:00:00", "2024-02-10T08:00:00+02:00"} {
		_, err := ParseDate(in)
		assert.NoError(t, err, in)
	}

	_, err := ParseDate("10/02/2024")
	assert.Error(t, err)
}
