package appointment

import (
	"context"
	"errors"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDuplicateID         = errors.New("duplicate appointment id")
)

// Repository persists the whole appointment collection at once.
type Repository interface {
	// Load returns the saved collection, or the seed collection on first run.
	// Read failures degrade to an empty collection and are not reported.
	Load(ctx context.Context) []Appointment

	Save(ctx context.Context, coll []Appointment) error
}
