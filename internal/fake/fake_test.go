package fake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-calendar/internal/appointment"
	"github.com/hackgods/clinic-calendar/internal/reference"
)

func TestSlots(t *testing.T) {
	slots := Slots()

	assert.Len(t, slots, 9*4)
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "17:45", slots[len(slots)-1])
	assert.NotContains(t, slots, "12:00")
	assert.Contains(t, slots, "13:00")
}

func TestCatalog(t *testing.T) {
	c := Catalog(42, 10, 4)

	require.NoError(t, c.Validate())
	assert.Len(t, c.Patients, 10)
	assert.Len(t, c.Doctors, 4)
	assert.Equal(t, "p10", c.Patients[9].ID)
}

func TestCandidate(t *testing.T) {
	g, err := New(7, reference.Default())
	require.NoError(t, err)
	day := time.Date(2030, time.June, 3, 0, 0, 0, 0, time.Local)

	for i := 0; i < 50; i++ {
		c := g.Candidate(day)

		assert.Empty(t, appointment.ValidateAt(c, false, day.AddDate(0, 0, -1)))
		assert.True(t, appointment.SameCalendarDay(c.Date, day))
		assert.Equal(t, c.Date.Format("15:04"), c.Time)
		assert.Contains(t, Durations, c.Duration)
		assert.True(t, c.Type.IsValid())
	}
}

func TestSchedule_IsConflictFree(t *testing.T) {
	g, err := New(99, reference.Default())
	require.NoError(t, err)
	from := time.Date(2030, time.June, 3, 0, 0, 0, 0, time.Local)

	coll := g.Schedule(from, 5, 20)
	require.NotEmpty(t, coll)

	seen := map[appointment.ID]bool{}
	for i, a := range coll {
		assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true

		others := appointment.Remove(coll, a.ID)
		assert.False(t, appointment.HasConflict(others, a, ""), "appointment %d double-books", i)
	}
}

func TestSchedule_Deterministic(t *testing.T) {
	from := time.Date(2030, time.June, 3, 0, 0, 0, 0, time.Local)

	ga, err := New(5, reference.Default())
	require.NoError(t, err)
	gb, err := New(5, reference.Default())
	require.NoError(t, err)

	assert.Equal(t, ga.Schedule(from, 2, 6), gb.Schedule(from, 2, 6))
}

func TestNew_RejectsEmptyCatalog(t *testing.T) {
	tests := []struct {
		name    string
		catalog reference.Catalog
	}{
		{name: "no doctors", catalog: Catalog(1, 5, 0)},
		{name: "no patients", catalog: Catalog(1, 0, 3)},
		{name: "empty", catalog: reference.Catalog{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(1, tt.catalog)
			assert.ErrorIs(t, err, ErrEmptyCatalog)
			assert.Nil(t, g)
			assert.Error(t, tt.catalog.Validate())
		})
	}
}
