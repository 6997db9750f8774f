package appointment

import (
	"sort"
	"time"
)

// The mutators below never modify their input. Each returns a new slice so
// callers can treat a collection as a plain value.

// Add appends a. The caller guarantees a.ID is not already present.
func Add(coll []Appointment, a Appointment) []Appointment {
	out := make([]Appointment, 0, len(coll)+1)
	out = append(out, coll...)
	return append(out, a)
}

// Update replaces the element sharing updated.ID. An unknown id leaves the
// collection unchanged.
func Update(coll []Appointment, updated Appointment) []Appointment {
	out := make([]Appointment, len(coll))
	for i, a := range coll {
		if a.ID == updated.ID {
			out[i] = updated
			continue
		}
		out[i] = a
	}
	return out
}

func Remove(coll []Appointment, id ID) []Appointment {
	out := make([]Appointment, 0, len(coll))
	for _, a := range coll {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

func IndexOf(coll []Appointment, id ID) int {
	for i, a := range coll {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// Filter narrows a collection; empty fields match everything.
type Filter struct {
	DoctorID  string
	PatientID string
	Type      Type
}

func (f Filter) matches(a Appointment) bool {
	if f.DoctorID != "" && a.DoctorID != f.DoctorID {
		return false
	}
	if f.PatientID != "" && a.PatientID != f.PatientID {
		return false
	}
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	return true
}

func Apply(coll []Appointment, f Filter) []Appointment {
	out := make([]Appointment, 0, len(coll))
	for _, a := range coll {
		if f.matches(a) {
			out = append(out, a)
		}
	}
	return out
}

// OnDate returns the appointments starting on the same local day as day.
func OnDate(coll []Appointment, day time.Time) []Appointment {
	out := make([]Appointment, 0)
	for _, a := range coll {
		if SameCalendarDay(a.Date, day) {
			out = append(out, a)
		}
	}
	return out
}

// InRange returns the appointments starting within [from, to], both ends inclusive.
func InRange(coll []Appointment, from, to time.Time) []Appointment {
	out := make([]Appointment, 0)
	for _, a := range coll {
		if !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	return out
}

// SortByDate returns a copy of coll ordered by start time.
func SortByDate(coll []Appointment) []Appointment {
	out := make([]Appointment, len(coll))
	copy(out, coll)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// MonthDays groups the appointments of a local calendar month by day of
// month. Days without appointments are absent from the map.
func MonthDays(coll []Appointment, year int, month time.Month) map[int][]Appointment {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	next := first.AddDate(0, 1, 0)

	days := make(map[int][]Appointment)
	for _, a := range SortByDate(coll) {
		start := dayStart(a.Date)
		if start.Before(first) || !start.Before(next) {
			continue
		}
		d := start.Day()
		days[d] = append(days[d], a)
	}
	return days
}
