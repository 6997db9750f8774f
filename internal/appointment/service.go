package appointment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionImport = "import"

	RejectValidation = "validation"
	RejectConflict   = "conflict"
	RejectDuplicate  = "duplicate"
)

// Metrics receives booking outcomes.
type Metrics interface {
	Committed(action string)
	Rejected(reason string)
	PersistFailed()
}

type nopMetrics struct{}

func (nopMetrics) Committed(string) {}
func (nopMetrics) Rejected(string)  {}
func (nopMetrics) PersistFailed()   {}

// Service holds the current appointment collection and runs every change
// through validation, conflict detection and persistence, in that order.
// Mutations are serialised so only one is ever in flight.
type Service struct {
	repo    Repository
	log     *zap.Logger
	metrics Metrics

	now   func() time.Time
	newID func() ID

	mu   sync.RWMutex
	coll []Appointment
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(gen func() ID) Option {
	return func(s *Service) { s.newID = gen }
}

func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(repo Repository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		log:     log,
		metrics: nopMetrics{},
		now:     time.Now,
		newID:   newTimeOrderedID,
		coll:    []Appointment{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newTimeOrderedID returns a UUIDv7, which sorts by creation time.
func newTimeOrderedID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		return ID(uuid.NewString())
	}
	return ID(id.String())
}

// Load replaces the in-memory collection with the repository's.
func (s *Service) Load(ctx context.Context) int {
	coll := s.repo.Load(ctx)

	s.mu.Lock()
	s.coll = coll
	s.mu.Unlock()

	return len(coll)
}

// Snapshot returns the current collection in stored order.
func (s *Service) Snapshot() []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Appointment, len(s.coll))
	copy(out, s.coll)
	return out
}

// List returns the appointments matching f ordered by start time.
func (s *Service) List(f Filter) []Appointment {
	return SortByDate(Apply(s.Snapshot(), f))
}

func (s *Service) Get(id ID) (Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := IndexOf(s.coll, id); i >= 0 {
		return s.coll[i], nil
	}
	return Appointment{}, ErrAppointmentNotFound
}

func (s *Service) OnDate(day time.Time, f Filter) []Appointment {
	return SortByDate(OnDate(Apply(s.Snapshot(), f), day))
}

func (s *Service) InRange(from, to time.Time, f Filter) []Appointment {
	return SortByDate(InRange(Apply(s.Snapshot(), f), from, to))
}

func (s *Service) Month(year int, month time.Month, f Filter) map[int][]Appointment {
	return MonthDays(Apply(s.Snapshot(), f), year, month)
}

// Create books a new appointment. A missing id is generated.
func (s *Service) Create(ctx context.Context, candidate Appointment) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msgs := ValidateAt(candidate, false, s.now()); len(msgs) > 0 {
		s.metrics.Rejected(RejectValidation)
		return Appointment{}, &ValidationError{Messages: msgs}
	}

	if existing, found := FindConflict(s.coll, candidate, ""); found {
		s.metrics.Rejected(RejectConflict)
		return Appointment{}, &ConflictError{Existing: existing, Message: ConflictMessage(existing, candidate)}
	}

	if candidate.ID == "" {
		candidate.ID = s.newID()
	} else if IndexOf(s.coll, candidate.ID) >= 0 {
		s.metrics.Rejected(RejectDuplicate)
		return Appointment{}, fmt.Errorf("create appointment %s: %w", candidate.ID, ErrDuplicateID)
	}

	s.commit(ctx, ActionCreate, candidate.ID, Add(s.coll, candidate))
	return candidate, nil
}

// Update replaces the appointment with the given id. Unlike the Update
// mutator, an unknown id is reported as ErrAppointmentNotFound.
func (s *Service) Update(ctx context.Context, id ID, candidate Appointment) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if IndexOf(s.coll, id) < 0 {
		return Appointment{}, ErrAppointmentNotFound
	}
	candidate.ID = id

	if msgs := ValidateAt(candidate, true, s.now()); len(msgs) > 0 {
		s.metrics.Rejected(RejectValidation)
		return Appointment{}, &ValidationError{Messages: msgs}
	}

	if existing, found := FindConflict(s.coll, candidate, id); found {
		s.metrics.Rejected(RejectConflict)
		return Appointment{}, &ConflictError{Existing: existing, Message: ConflictMessage(existing, candidate)}
	}

	s.commit(ctx, ActionUpdate, id, Update(s.coll, candidate))
	return candidate, nil
}

func (s *Service) Delete(ctx context.Context, id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if IndexOf(s.coll, id) < 0 {
		return ErrAppointmentNotFound
	}

	s.commit(ctx, ActionDelete, id, Remove(s.coll, id))
	return nil
}

// commit swaps in next and persists it. A failed save is logged and the
// in-memory collection is kept; the caller must hold s.mu.
func (s *Service) commit(ctx context.Context, action string, id ID, next []Appointment) {
	s.coll = next
	s.metrics.Committed(action)

	if err := s.repo.Save(ctx, next); err != nil {
		s.metrics.PersistFailed()
		s.log.Error("failed to persist appointments",
			zap.String("action", action),
			zap.String("appointment_id", id.String()),
			zap.Int("count", len(next)),
			zap.Error(err),
		)
		return
	}

	s.log.Debug("appointments persisted",
		zap.String("action", action),
		zap.String("appointment_id", id.String()),
		zap.Int("count", len(next)),
	)
}
