package appointment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type Type string

const (
	TypeConsultation Type = "consultation"
	TypeFollowUp     Type = "follow-up"
	TypeEmergency    Type = "emergency"
	TypeRoutine      Type = "routine"
	TypeProcedure    Type = "procedure"
)

// Types lists every appointment category in display order.
var Types = []Type{TypeConsultation, TypeFollowUp, TypeEmergency, TypeRoutine, TypeProcedure}

func (t Type) IsValid() bool {
	switch t {
	case TypeConsultation, TypeFollowUp, TypeEmergency, TypeRoutine, TypeProcedure:
		return true
	}
	return false
}

const (
	DefaultDuration = 30
	MinDuration     = 15
	MaxDuration     = 240
)

// ID identifies an appointment. Stored collections written by older clients
// may carry numeric ids, so decoding accepts a JSON number as well and keeps
// its textual form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("appointment id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

type Appointment struct {
	ID        ID        `json:"id"`
	PatientID string    `json:"patientId"`
	DoctorID  string    `json:"doctorId"`
	Date      time.Time `json:"date"`
	Time      string    `json:"time"`
	Duration  int       `json:"duration,omitempty"`
	Type      Type      `json:"type,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
}

// EffectiveDuration is the booked length, falling back to DefaultDuration
// when no duration was given.
func (a Appointment) EffectiveDuration() time.Duration {
	mins := a.Duration
	if mins == 0 {
		mins = DefaultDuration
	}
	return time.Duration(mins) * time.Minute
}

func (a Appointment) EndsAt() time.Time {
	return a.Date.Add(a.EffectiveDuration())
}
