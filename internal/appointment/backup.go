package appointment

import (
	"context"
	"fmt"
	"time"
)

// Backup is the export format: the full collection plus when it was taken.
type Backup struct {
	Appointments []Appointment `json:"appointments"`
	ExportDate   time.Time     `json:"exportDate"`
}

// BackupFileName follows clinic-calendar-backup-YYYY-MM-DD.json.
func BackupFileName(at time.Time) string {
	return fmt.Sprintf("clinic-calendar-backup-%s.json", at.UTC().Format(time.DateOnly))
}

func (s *Service) Export() Backup {
	return Backup{
		Appointments: s.Snapshot(),
		ExportDate:   s.now().UTC(),
	}
}

// Import replaces the whole collection with the one in b. Records are
// checked for ids and duration bounds only: restored data may legitimately
// hold past or overlapping appointments.
func (s *Service) Import(ctx context.Context, b Backup) (int, error) {
	if b.Appointments == nil {
		return 0, &ValidationError{Messages: []string{"Backup contains no appointments"}}
	}

	seen := make(map[ID]struct{}, len(b.Appointments))
	var msgs []string
	for i, a := range b.Appointments {
		if a.ID == "" {
			msgs = append(msgs, fmt.Sprintf("Appointment %d has no id", i+1))
			continue
		}
		if _, dup := seen[a.ID]; dup {
			s.metrics.Rejected(RejectDuplicate)
			return 0, fmt.Errorf("import appointment %s: %w", a.ID, ErrDuplicateID)
		}
		seen[a.ID] = struct{}{}
		if a.Duration != 0 && (a.Duration < MinDuration || a.Duration > MaxDuration) {
			msgs = append(msgs, fmt.Sprintf("Appointment %s: %s", a.ID, MsgDurationRange))
		}
	}
	if len(msgs) > 0 {
		s.metrics.Rejected(RejectValidation)
		return 0, &ValidationError{Messages: msgs}
	}

	next := make([]Appointment, len(b.Appointments))
	copy(next, b.Appointments)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.commit(ctx, ActionImport, "", next)
	return len(next), nil
}
