package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/medhealth/medhealthd/internal/domain/med"
)

// openTestDB opens a fresh database under the test's temporary directory.
func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "medhealth.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	return db
}

// TestMedicationLifecycle covers add, list ordering and deactivation.
func TestMedicationLifecycle(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	first, err := db.AddMedication(ctx, "Aspirin", "08:00")
	require.NoError(t, err)
	require.True(t, first.Active)

	second, err := db.AddMedication(ctx, "Metformin", "20:30")
	require.NoError(t, err)
	require.Greater(t, second.ID, first.ID)

	// Insertion order is the scheduler tie-break, so it must survive listing.
	active, err := db.ListActiveMedications(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, "Aspirin", active[0].Name)
	require.Equal(t, "Metformin", active[1].Name)

	require.NoError(t, db.DeactivateMedication(ctx, first.ID))

	active, err = db.ListActiveMedications(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "Metformin", active[0].Name)

	// The row survives deactivation.
	all, err := db.ListMedications(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.False(t, all[0].Active)
}

// TestAddMedicationRejectsBadSchedule ensures schedule validation at entry.
func TestAddMedicationRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)

	_, err := db.AddMedication(context.Background(), "Aspirin", "25:99")
	require.ErrorIs(t, err, med.ErrInvalidSchedule)
}

// TestDeactivateMissingMedication returns ErrNotFound.
func TestDeactivateMissingMedication(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)

	err := db.DeactivateMedication(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

// TestHasIntakeToday checks per-day, per-outcome suppression lookups.
func TestHasIntakeToday(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	m, err := db.AddMedication(ctx, "Aspirin", "08:00")
	require.NoError(t, err)

	day := time.Date(2025, 6, 10, 8, 0, 25, 0, time.Local)

	taken, err := db.HasIntakeToday(ctx, m.ID, med.OutcomeTaken, day)
	require.NoError(t, err)
	require.False(t, taken)

	temp := 36.6
	require.NoError(t, db.AppendIntakeLog(ctx, &med.IntakeLog{
		MedicationID:   m.ID,
		MedicationName: m.Name,
		Scheduled:      m.Schedule,
		ActualAt:       day,
		Outcome:        med.OutcomeTaken,
		Temperature:    &temp,
		CreatedAt:      day,
	}))

	taken, err = db.HasIntakeToday(ctx, m.ID, med.OutcomeTaken, day)
	require.NoError(t, err)
	require.True(t, taken)

	// A taken entry does not count as missed.
	missed, err := db.HasIntakeToday(ctx, m.ID, med.OutcomeMissed, day)
	require.NoError(t, err)
	require.False(t, missed)

	// The next calendar day starts clean.
	taken, err = db.HasIntakeToday(ctx, m.ID, med.OutcomeTaken, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.False(t, taken)
}

// TestIntakeLogRoundtrip verifies entries come back newest first with IDs.
func TestIntakeLogRoundtrip(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	m, err := db.AddMedication(ctx, "Aspirin", "08:00")
	require.NoError(t, err)

	base := time.Date(2025, 6, 10, 8, 0, 0, 0, time.Local)
	pulse := 72

	for i, outcome := range []med.Outcome{med.OutcomeMissed, med.OutcomeTaken} {
		entry := &med.IntakeLog{
			MedicationID:   m.ID,
			MedicationName: m.Name,
			Scheduled:      m.Schedule,
			ActualAt:       base.Add(time.Duration(i) * time.Hour),
			Outcome:        outcome,
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
		}
		if outcome == med.OutcomeTaken {
			entry.Pulse = &pulse
		}

		require.NoError(t, db.AppendIntakeLog(ctx, entry))
		require.NotEmpty(t, entry.ID)
	}

	logs, err := db.RecentIntakeLogs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, med.OutcomeTaken, logs[0].Outcome)
	require.NotNil(t, logs[0].Pulse)
	require.Equal(t, 72, *logs[0].Pulse)
	require.Equal(t, med.OutcomeMissed, logs[1].Outcome)
	require.Nil(t, logs[1].Temperature)
}

// TestVitalsLogRoundtrip verifies vitals entries and limit handling.
func TestVitalsLogRoundtrip(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)

	for i := 0; i < 3; i++ {
		temp := 36.0 + float64(i)
		require.NoError(t, db.AppendVitalsLog(ctx, &med.VitalsLog{
			Temperature: &temp,
			Status:      med.StatusNormal,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	logs, err := db.RecentVitalsLogs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.InEpsilon(t, 38.0, *logs[0].Temperature, 1e-9)
	require.InEpsilon(t, 37.0, *logs[1].Temperature, 1e-9)
}
