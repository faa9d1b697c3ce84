package store

import (
	"context"
	"errors"
	"time"

	"github.com/medhealth/medhealthd/internal/domain/med"
)

// ErrNotFound is returned when a referenced medication does not exist.
var ErrNotFound = errors.New("medication not found")

// Store defines the persistence operations the alarm engine consumes.
// Implementations must be safe for use from both polling loops.
type Store interface {
	// AddMedication inserts a new active medication and returns it with
	// its assigned identifier.
	AddMedication(ctx context.Context, name, schedule string) (*med.Medication, error)
	// ListActiveMedications returns active medications in insertion
	// order, which is the scheduler's tie-break order.
	ListActiveMedications(ctx context.Context) ([]med.Medication, error)
	// ListMedications returns every medication, active or not.
	ListMedications(ctx context.Context) ([]med.Medication, error)
	// DeactivateMedication marks a medication inactive. Rows are never
	// deleted so existing log entries keep a valid reference.
	DeactivateMedication(ctx context.Context, id uint) error

	// HasIntakeToday reports whether an intake entry with the outcome
	// exists for the medication on day's calendar date.
	HasIntakeToday(ctx context.Context, medicationID uint, outcome med.Outcome, day time.Time) (bool, error)
	// AppendIntakeLog writes one immutable intake entry.
	AppendIntakeLog(ctx context.Context, entry *med.IntakeLog) error
	// RecentIntakeLogs returns up to limit entries, newest first.
	RecentIntakeLogs(ctx context.Context, limit int) ([]med.IntakeLog, error)

	// AppendVitalsLog writes one vitals entry.
	AppendVitalsLog(ctx context.Context, entry *med.VitalsLog) error
	// RecentVitalsLogs returns up to limit entries, newest first.
	RecentVitalsLogs(ctx context.Context, limit int) ([]med.VitalsLog, error)

	// Close releases the underlying database handle.
	Close() error
}
