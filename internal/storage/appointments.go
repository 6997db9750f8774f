package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hackgods/clinic-calendar/internal/appointment"
)

const DefaultAppointmentsKey = "clinic_appointments"

// AppointmentRepository persists the appointment collection as a single JSON
// array document in a KV.
type AppointmentRepository struct {
	kv   KV
	key  string
	seed bool
	log  *zap.Logger
}

type RepositoryOption func(*AppointmentRepository)

// WithKey overrides DefaultAppointmentsKey.
func WithKey(key string) RepositoryOption {
	return func(r *AppointmentRepository) { r.key = key }
}

// WithSampleData makes Load write SampleAppointments on first run.
func WithSampleData(enabled bool) RepositoryOption {
	return func(r *AppointmentRepository) { r.seed = enabled }
}

func NewAppointmentRepository(kv KV, log *zap.Logger, opts ...RepositoryOption) *AppointmentRepository {
	r := &AppointmentRepository{
		kv:   kv,
		key:  DefaultAppointmentsKey,
		seed: true,
		log:  log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ appointment.Repository = (*AppointmentRepository)(nil)

// Load never fails: a missing key is a first run and any other read or
// decode error is logged and yields an empty collection.
func (r *AppointmentRepository) Load(ctx context.Context) []appointment.Appointment {
	coll, err := r.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return r.firstRun(ctx)
		}
		r.log.Error("error loading appointments", zap.String("key", r.key), zap.Error(err))
		return []appointment.Appointment{}
	}
	return coll
}

// Read returns the stored collection or the error that kept it from being
// read. A missing key is reported as ErrKeyNotFound and nothing is seeded.
func (r *AppointmentRepository) Read(ctx context.Context) ([]appointment.Appointment, error) {
	data, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("read appointments: %w", err)
	}

	var coll []appointment.Appointment
	if err := json.Unmarshal(data, &coll); err != nil {
		return nil, fmt.Errorf("stored appointments are corrupted: %w", err)
	}
	if coll == nil {
		coll = []appointment.Appointment{}
	}
	return coll, nil
}

func (r *AppointmentRepository) firstRun(ctx context.Context) []appointment.Appointment {
	if !r.seed {
		return []appointment.Appointment{}
	}

	coll := SampleAppointments()
	if err := r.Save(ctx, coll); err != nil {
		r.log.Error("error storing sample appointments", zap.String("key", r.key), zap.Error(err))
	} else {
		r.log.Info("initialised storage with sample appointments", zap.Int("count", len(coll)))
	}
	return coll
}

func (r *AppointmentRepository) Save(ctx context.Context, coll []appointment.Appointment) error {
	if coll == nil {
		coll = []appointment.Appointment{}
	}
	data, err := json.Marshal(coll)
	if err != nil {
		return fmt.Errorf("encode appointments: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("save appointments: %w", err)
	}
	return nil
}

// Clear removes the stored collection; the next Load behaves like a first run.
func (r *AppointmentRepository) Clear(ctx context.Context) error {
	if err := r.kv.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("clear appointments: %w", err)
	}
	return nil
}
