package api

import (
	"time"

	"github.com/hackgods/clinic-calendar/internal/appointment"
	"github.com/hackgods/clinic-calendar/internal/reference"
)

// AppointmentRequest is the body of create and edit calls. Date is either an
// RFC 3339 timestamp or a YYYY-MM-DD day that is combined with Time in the
// server's local zone.
type AppointmentRequest struct {
	ID        string `json:"id,omitempty"`
	PatientID string `json:"patientId"`
	DoctorID  string `json:"doctorId"`
	Date      string `json:"date"`
	Time      string `json:"time" validate:"omitempty,datetime=15:04"`
	Duration  int    `json:"duration,omitempty"`
	Type      string `json:"type,omitempty" validate:"omitempty,oneof=consultation follow-up emergency routine procedure"`
	Notes     string `json:"notes,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

type AppointmentResponse struct {
	appointment.Appointment
	EndsAt      time.Time `json:"endsAt"`
	PatientName string    `json:"patientName,omitempty"`
	DoctorName  string    `json:"doctorName,omitempty"`
}

type ListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Count        int                   `json:"count"`
}

type MonthResponse struct {
	Year  int                           `json:"year"`
	Month int                           `json:"month"`
	Days  map[int][]AppointmentResponse `json:"days"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

type ErrorResponse struct {
	Error         string   `json:"error"`
	Details       string   `json:"details,omitempty"`
	Messages      []string `json:"messages,omitempty"`
	ConflictingID string   `json:"conflictingId,omitempty"`
}

func toResponse(a appointment.Appointment, catalog reference.Catalog) AppointmentResponse {
	return AppointmentResponse{
		Appointment: a,
		EndsAt:      a.EndsAt(),
		PatientName: reference.Name(catalog.Patients, a.PatientID),
		DoctorName:  reference.Name(catalog.Doctors, a.DoctorID),
	}
}

func toResponses(coll []appointment.Appointment, catalog reference.Catalog) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(coll))
	for _, a := range coll {
		out = append(out, toResponse(a, catalog))
	}
	return out
}
