package fake

import (
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/clinic-calendar/internal/appointment"
	"github.com/hackgods/clinic-calendar/internal/reference"
)

// Durations offered by the booking form, in minutes.
var Durations = []int{15, 30, 45, 60, 90, 120}

var notes = []string{
	"Annual checkup",
	"Follow-up on blood pressure medication",
	"Minor surgical procedure - patient fasting required",
	"Routine physical examination",
	"New patient consultation",
	"Follow-up on diabetes management",
	"Review of lab results",
	"Vaccination",
}

// Generator produces plausible clinic data. It is not safe for concurrent use.
type Generator struct {
	faker   *gofakeit.Faker
	catalog reference.Catalog
}

var ErrEmptyCatalog = errors.New("catalog needs at least one patient and one doctor")

// New returns a generator drawing ids from catalog. A zero seed picks a
// random one.
func New(seed uint64, catalog reference.Catalog) (*Generator, error) {
	if len(catalog.Patients) == 0 || len(catalog.Doctors) == 0 {
		return nil, ErrEmptyCatalog
	}
	return &Generator{faker: gofakeit.New(seed), catalog: catalog}, nil
}

// Catalog builds a reference list of the given size with made up names.
func Catalog(seed uint64, patients, doctors int) reference.Catalog {
	f := gofakeit.New(seed)

	c := reference.Catalog{Types: reference.DefaultTypes()}
	for i := 1; i <= patients; i++ {
		c.Patients = append(c.Patients, reference.Entity{ID: fmt.Sprintf("p%d", i), Name: f.Name()})
	}
	for i := 1; i <= doctors; i++ {
		c.Doctors = append(c.Doctors, reference.Entity{ID: fmt.Sprintf("d%d", i), Name: "Dr. " + f.Name()})
	}
	return c
}

// Slots are the clinic's bookable start times, every 15 minutes from 08:00
// to 17:45 with a lunch break between 12:00 and 13:00.
func Slots() []string {
	var out []string
	for h := 8; h < 18; h++ {
		if h == 12 {
			continue
		}
		for m := 0; m < 60; m += 15 {
			out = append(out, fmt.Sprintf("%02d:%02d", h, m))
		}
	}
	return out
}

// Candidate makes a new appointment candidate on day (local), without an id.
func (g *Generator) Candidate(day time.Time) appointment.Appointment {
	slots := Slots()
	clock := slots[g.faker.Number(0, len(slots)-1)]

	var hour, min int
	_, _ = fmt.Sscanf(clock, "%d:%d", &hour, &min)
	y, m, d := day.Local().Date()

	patient := g.catalog.Patients[g.faker.Number(0, len(g.catalog.Patients)-1)]
	doctor := g.catalog.Doctors[g.faker.Number(0, len(g.catalog.Doctors)-1)]

	return appointment.Appointment{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Date:      time.Date(y, m, d, hour, min, 0, 0, time.Local),
		Time:      clock,
		Duration:  Durations[g.faker.Number(0, len(Durations)-1)],
		Type:      appointment.Types[g.faker.Number(0, len(appointment.Types)-1)],
		Notes:     g.faker.RandomString(notes),
		Phone:     g.faker.Phone(),
		Email:     g.faker.Email(),
	}
}

// Schedule fills the days starting at from with up to perDay appointments
// each, dropping candidates that would double-book a doctor or patient.
func (g *Generator) Schedule(from time.Time, days, perDay int) []appointment.Appointment {
	coll := []appointment.Appointment{}
	seq := 0
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i)
		for j := 0; j < perDay; j++ {
			c := g.Candidate(day)
			if appointment.HasConflict(coll, c, "") {
				continue
			}
			seq++
			c.ID = appointment.ID(fmt.Sprintf("seed-%04d", seq))
			coll = appointment.Add(coll, c)
		}
	}
	return coll
}
