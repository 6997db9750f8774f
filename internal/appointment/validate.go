package appointment

import (
	"strings"
	"time"
)

const (
	MsgPatientRequired = "Patient is required"
	MsgDoctorRequired  = "Doctor is required"
	MsgDateRequired    = "Date is required"
	MsgTimeRequired    = "Time is required"
	MsgDurationRange   = "Duration must be between 15 and 240 minutes"
	MsgPastAppointment = "Cannot create appointments in the past. Please select a future date and time."
)

// pastBuffer is how far ahead of now a new appointment has to start.
const pastBuffer = 5 * time.Minute

// Validate checks a candidate against the booking rules and returns every
// violated rule as a human readable message. An empty result means valid.
func Validate(candidate Appointment, isEditing bool) []string {
	return ValidateAt(candidate, isEditing, time.Now())
}

// ValidateAt is Validate with an explicit clock.
func ValidateAt(candidate Appointment, isEditing bool, now time.Time) []string {
	var msgs []string

	if candidate.PatientID == "" {
		msgs = append(msgs, MsgPatientRequired)
	}
	if candidate.DoctorID == "" {
		msgs = append(msgs, MsgDoctorRequired)
	}
	if candidate.Date.IsZero() {
		msgs = append(msgs, MsgDateRequired)
	}
	if candidate.Time == "" {
		msgs = append(msgs, MsgTimeRequired)
	}
	if candidate.Duration != 0 && (candidate.Duration < MinDuration || candidate.Duration > MaxDuration) {
		msgs = append(msgs, MsgDurationRange)
	}

	// Edits of appointments that already started must stay possible.
	if !candidate.Date.IsZero() && !isEditing {
		if !candidate.Date.After(now.Add(pastBuffer)) {
			msgs = append(msgs, MsgPastAppointment)
		}
	}

	return msgs
}

// ValidationError carries the messages produced by Validate.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}
