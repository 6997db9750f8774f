package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utc(hour, min int) time.Time {
	return time.Date(2024, time.January, 15, hour, min, 0, 0, time.UTC)
}

func TestHasConflict_DoctorDoubleBooked(t *testing.T) {
	coll := []Appointment{
		{ID: "a1", DoctorID: "d1", PatientID: "p1", Date: utc(9, 0), Time: "09:00", Duration: 30},
	}

	overlapping := Appointment{DoctorID: "d1", PatientID: "p2", Date: utc(9, 15), Time: "09:15", Duration: 30}
	assert.True(t, HasConflict(coll, overlapping, ""))

	adjacent := Appointment{DoctorID: "d1", PatientID: "p2", Date: utc(9, 30), Time: "09:30", Duration: 30}
	assert.False(t, HasConflict(coll, adjacent, ""))
}

func TestHasConflict(t *testing.T) {
	existing := Appointment{ID: "1", PatientID: "p1", DoctorID: "d1", Date: at(10, 0), Time: "10:00", Duration: 30}
	coll := []Appointment{existing}

	tests := []struct {
		name      string
		candidate Appointment
		excludeID ID
		want      bool
	}{
		{
			name:      "same doctor overlapping",
			candidate: Appointment{PatientID: "p2", DoctorID: "d1", Date: at(10, 15), Duration: 30},
			want:      true,
		},
		{
			name:      "same patient overlapping",
			candidate: Appointment{PatientID: "p1", DoctorID: "d2", Date: at(10, 15), Duration: 30},
			want:      true,
		},
		{
			name:      "different doctor and patient at the same time",
			candidate: Appointment{PatientID: "p2", DoctorID: "d2", Date: at(10, 0), Duration: 30},
			want:      false,
		},
		{
			name:      "ends exactly when existing starts",
			candidate: Appointment{PatientID: "p1", DoctorID: "d1", Date: at(9, 30), Duration: 30},
			want:      false,
		},
		{
			name:      "starts exactly when existing ends",
			candidate: Appointment{PatientID: "p1", DoctorID: "d1", Date: at(10, 30), Duration: 30},
			want:      false,
		},
		{
			name:      "long candidate swallowing existing",
			candidate: Appointment{PatientID: "p1", DoctorID: "d1", Date: at(9, 0), Duration: 120},
			want:      true,
		},
		{
			name:      "default duration overlaps",
			candidate: Appointment{PatientID: "p1", DoctorID: "d1", Date: at(9, 45)},
			want:      true,
		},
		{
			name:      "same clock time on another day",
			candidate: Appointment{PatientID: "p1", DoctorID: "d1", Date: at(10, 0).AddDate(0, 0, 1), Duration: 30},
			want:      false,
		},
		{
			name:      "editing the existing appointment itself",
			candidate: Appointment{ID: "1", PatientID: "p1", DoctorID: "d1", Date: at(10, 15), Duration: 30},
			excludeID: "1",
			want:      false,
		},
		{
			name:      "exclusion does not hide other appointments",
			candidate: Appointment{ID: "2", PatientID: "p1", DoctorID: "d1", Date: at(10, 15), Duration: 30},
			excludeID: "2",
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasConflict(coll, tt.candidate, tt.excludeID))
		})
	}
}

func TestHasConflict_EmptyCollection(t *testing.T) {
	assert.False(t, HasConflict(nil, validCandidate(), ""))
	assert.False(t, HasConflict([]Appointment{}, validCandidate(), ""))
}

func TestFindConflict_ReturnsFirstCollision(t *testing.T) {
	coll := []Appointment{
		{ID: "1", PatientID: "p9", DoctorID: "d9", Date: at(9, 0), Duration: 60},
		{ID: "2", PatientID: "p1", DoctorID: "d2", Date: at(9, 0), Duration: 60},
		{ID: "3", PatientID: "p3", DoctorID: "d1", Date: at(9, 0), Duration: 60},
	}
	candidate := Appointment{PatientID: "p1", DoctorID: "d1", Date: at(9, 30), Duration: 30}

	got, found := FindConflict(coll, candidate, "")
	require.True(t, found)
	assert.Equal(t, ID("2"), got.ID)

	_, found = FindConflict(coll, Appointment{PatientID: "p7", DoctorID: "d7", Date: at(9, 30)}, "")
	assert.False(t, found)
}

func TestConflictMessage(t *testing.T) {
	existing := Appointment{PatientID: "p1", DoctorID: "d1"}

	assert.Equal(t,
		"This appointment conflicts with an existing appointment. The doctor already has an appointment at this time.",
		ConflictMessage(existing, Appointment{PatientID: "p1", DoctorID: "d1"}))
	assert.Equal(t,
		"This appointment conflicts with an existing appointment. The patient already has an appointment at this time.",
		ConflictMessage(existing, Appointment{PatientID: "p1", DoctorID: "d2"}))
	assert.Equal(t,
		"This appointment conflicts with an existing appointment. Please choose a different time.",
		ConflictMessage(existing, Appointment{PatientID: "p2", DoctorID: "d2"}))
}

func TestConflictError(t *testing.T) {
	err := &ConflictError{Existing: Appointment{ID: "7"}, Message: "busy"}
	assert.Equal(t, "conflicts with appointment 7: busy", err.Error())
}
