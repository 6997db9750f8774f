package storage

import (
	"time"

	"github.com/hackgods/clinic-calendar/internal/appointment"
)

// SampleAppointments is the collection a fresh installation starts with.
// Appointments 1 and 2 share a start time with different doctors and
// patients; 3 reuses doctor d1 and 4 reuses patient p1 later in the day.
func SampleAppointments() []appointment.Appointment {
	at := func(hour, min int) time.Time {
		return time.Date(2024, time.January, 15, hour, min, 0, 0, time.UTC)
	}

	return []appointment.Appointment{
		{
			ID:        "1",
			PatientID: "p1",
			DoctorID:  "d1",
			Date:      at(9, 0),
			Time:      "09:00",
			Duration:  30,
			Type:      appointment.TypeConsultation,
			Notes:     "Annual checkup, patient reports feeling well",
		},
		{
			ID:        "2",
			PatientID: "p2",
			DoctorID:  "d2",
			Date:      at(9, 0),
			Time:      "09:00",
			Duration:  45,
			Type:      appointment.TypeFollowUp,
			Notes:     "Follow-up on blood pressure medication",
		},
		{
			ID:        "3",
			PatientID: "p3",
			DoctorID:  "d1",
			Date:      at(10, 30),
			Time:      "10:30",
			Duration:  60,
			Type:      appointment.TypeProcedure,
			Notes:     "Minor surgical procedure - patient fasting required",
		},
		{
			ID:        "4",
			PatientID: "p1",
			DoctorID:  "d3",
			Date:      at(14, 0),
			Time:      "14:00",
			Duration:  30,
			Type:      appointment.TypeRoutine,
			Notes:     "Routine check-up",
		},
	}
}
