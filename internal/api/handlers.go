package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/hackgods/clinic-calendar/internal/appointment"
	"github.com/hackgods/clinic-calendar/internal/reference"
)

var requestValidator = validator.New()

var errInvalidDate = errors.New("date must be an RFC 3339 timestamp or a YYYY-MM-DD day with a time")

func listAppointmentsHandler(svc *appointment.Service, catalog reference.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := appointment.Filter{
			DoctorID:  q.Get("doctorId"),
			PatientID: q.Get("patientId"),
			Type:      appointment.Type(q.Get("type")),
		}

		var coll []appointment.Appointment
		switch {
		case q.Get("date") != "":
			day, err := time.ParseInLocation(time.DateOnly, q.Get("date"), time.Local)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
				return
			}
			coll = svc.OnDate(day, filter)

		case q.Get("from") != "" || q.Get("to") != "":
			from, to, err := parseRange(q.Get("from"), q.Get("to"))
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
				return
			}
			coll = svc.InRange(from, to, filter)

		default:
			coll = svc.List(filter)
		}

		writeJSON(w, http.StatusOK, ListResponse{
			Appointments: toResponses(coll, catalog),
			Count:        len(coll),
		})
	}
}

func getAppointmentHandler(svc *appointment.Service, catalog reference.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Get(appointment.ID(chi.URLParam(r, "id")))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(a, catalog))
	}
}

func createAppointmentHandler(svc *appointment.Service, catalog reference.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		candidate, ok := decodeCandidate(w, r)
		if !ok {
			return
		}

		created, err := svc.Create(r.Context(), candidate)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toResponse(created, catalog))
	}
}

func updateAppointmentHandler(svc *appointment.Service, catalog reference.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		candidate, ok := decodeCandidate(w, r)
		if !ok {
			return
		}

		id := appointment.ID(chi.URLParam(r, "id"))
		if candidate.ID != "" && candidate.ID != id {
			writeError(w, http.StatusBadRequest, "id_mismatch", "body id does not match the URL")
			return
		}

		updated, err := svc.Update(r.Context(), id, candidate)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(updated, catalog))
	}
}

func deleteAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), appointment.ID(chi.URLParam(r, "id"))); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func monthHandler(svc *appointment.Service, catalog reference.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := strconv.Atoi(chi.URLParam(r, "year"))
		if err != nil || year < 1 {
			writeError(w, http.StatusBadRequest, "invalid_year", "year must be a positive number")
			return
		}
		month, err := strconv.Atoi(chi.URLParam(r, "month"))
		if err != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "invalid_month", "month must be between 1 and 12")
			return
		}

		q := r.URL.Query()
		filter := appointment.Filter{
			DoctorID:  q.Get("doctorId"),
			PatientID: q.Get("patientId"),
			Type:      appointment.Type(q.Get("type")),
		}

		days := svc.Month(year, time.Month(month), filter)
		resp := MonthResponse{Year: year, Month: month, Days: make(map[int][]AppointmentResponse, len(days))}
		for d, coll := range days {
			resp.Days[d] = toResponses(coll, catalog)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func referenceHandler(catalog reference.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalog)
	}
}

func exportHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b := svc.Export()
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", appointment.BackupFileName(b.ExportDate)))
		writeJSON(w, http.StatusOK, b)
	}
}

func importHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var b appointment.Backup
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_backup", "Invalid backup file format")
			return
		}

		n, err := svc.Import(r.Context(), b)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ImportResponse{Imported: n})
	}
}

// decodeCandidate parses and checks the request body. On failure it has
// already written the response.
func decodeCandidate(w http.ResponseWriter, r *http.Request) (appointment.Appointment, bool) {
	var req AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return appointment.Appointment{}, false
	}

	if err := requestValidator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return appointment.Appointment{}, false
	}

	date, err := parseDate(req.Date, req.Time)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
		return appointment.Appointment{}, false
	}

	return appointment.Appointment{
		ID:        appointment.ID(req.ID),
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      date,
		Time:      req.Time,
		Duration:  req.Duration,
		Type:      appointment.Type(req.Type),
		Notes:     req.Notes,
		Phone:     req.Phone,
		Email:     req.Email,
	}, true
}

// parseDate returns the zero time for an empty date so that the validator
// reports it as missing.
func parseDate(date, clock string) (time.Time, error) {
	if date == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, date); err == nil {
		return t, nil
	}
	if clock == "" {
		return time.Time{}, errInvalidDate
	}
	t, err := time.ParseInLocation(time.DateOnly+"T15:04", date+"T"+clock, time.Local)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return t, nil
}

// parseRange accepts RFC 3339 timestamps or YYYY-MM-DD days for both ends.
// A bare "to" day covers that whole day.
func parseRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	from := time.Time{}
	to := time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

	if fromRaw != "" {
		t, err := parseBound(fromRaw, false)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("from: %w", err)
		}
		from = t
	}
	if toRaw != "" {
		t, err := parseBound(toRaw, true)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("to: %w", err)
		}
		to = t
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("to is before from")
	}
	return from, to, nil
}

func parseBound(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		return time.Time{}, errors.New("expected RFC 3339 timestamp or YYYY-MM-DD")
	}
	if endOfDay {
		return day.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return day, nil
}

func handleServiceError(w http.ResponseWriter, err error) {
	var verr *appointment.ValidationError
	var cerr *appointment.ConflictError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:    "validation_failed",
			Details:  "Please fix the following errors",
			Messages: verr.Messages,
		})
	case errors.As(err, &cerr):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:         "appointment_conflict",
			Details:       cerr.Message,
			ConflictingID: cerr.Existing.ID.String(),
		})
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, appointment.ErrDuplicateID):
		writeError(w, http.StatusConflict, "duplicate_id", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
