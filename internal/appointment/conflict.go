package appointment

import "fmt"

const (
	msgConflictBase    = "This appointment conflicts with an existing appointment. "
	msgConflictDoctor  = "The doctor already has an appointment at this time."
	msgConflictPatient = "The patient already has an appointment at this time."
	msgConflictOther   = "Please choose a different time."
)

// collides is the single predicate behind HasConflict and FindConflict:
// same local day, overlapping intervals and a shared doctor or patient.
func collides(existing, candidate Appointment, candidateInterval Interval) bool {
	if !SameCalendarDay(candidate.Date, existing.Date) {
		return false
	}
	if !Overlaps(candidateInterval, IntervalOf(existing)) {
		return false
	}
	return existing.DoctorID == candidate.DoctorID || existing.PatientID == candidate.PatientID
}

// HasConflict reports whether candidate double-books a doctor or a patient
// in coll. The appointment with id excludeID (the one being edited) is
// ignored; pass "" when creating.
func HasConflict(coll []Appointment, candidate Appointment, excludeID ID) bool {
	_, found := FindConflict(coll, candidate, excludeID)
	return found
}

// FindConflict returns the first appointment in coll that collides with candidate.
func FindConflict(coll []Appointment, candidate Appointment, excludeID ID) (Appointment, bool) {
	iv := IntervalOf(candidate)
	for _, existing := range coll {
		if excludeID != "" && existing.ID == excludeID {
			continue
		}
		if collides(existing, candidate, iv) {
			return existing, true
		}
	}
	return Appointment{}, false
}

// ConflictMessage builds the user-facing explanation for a collision with existing.
func ConflictMessage(existing, candidate Appointment) string {
	switch {
	case existing.DoctorID == candidate.DoctorID:
		return msgConflictBase + msgConflictDoctor
	case existing.PatientID == candidate.PatientID:
		return msgConflictBase + msgConflictPatient
	default:
		return msgConflictBase + msgConflictOther
	}
}

// ConflictError is returned by the service when a candidate collides with
// an already booked appointment.
type ConflictError struct {
	Existing Appointment
	Message  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicts with appointment %s: %s", e.Existing.ID, e.Message)
}
