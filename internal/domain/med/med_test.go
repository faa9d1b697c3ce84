package med

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestParseClockTime verifies accepted and rejected schedule strings.
func TestParseClockTime(t *testing.T) {
	t.Parallel()

	ct, err := ParseClockTime("08:00")
	require.NoError(t, err)
	require.Equal(t, ClockTime{Hour: 8}, ct)
	require.Equal(t, "08:00", ct.String())

	ct, err = ParseClockTime("23:59")
	require.NoError(t, err)
	require.Equal(t, ClockTime{Hour: 23, Minute: 59}, ct)

	for _, bad := range []string{"", "8", "24:00", "12:60", "ab:cd", "-1:30"} {
		_, err = ParseClockTime(bad)
		require.ErrorIs(t, err, ErrInvalidSchedule, "input %q", bad)
	}
}

// TestWithinWindow pins the ±30 s acceptance window edges.
func TestWithinWindow(t *testing.T) {
	t.Parallel()

	ct := ClockTime{Hour: 8}
	window := 30 * time.Second
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	at := func(h, m, s int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), h, m, s, 0, time.UTC)
	}

	require.True(t, ct.WithinWindow(at(8, 0, 0), window))
	require.True(t, ct.WithinWindow(at(8, 0, 15), window))
	require.True(t, ct.WithinWindow(at(7, 59, 30), window))
	require.True(t, ct.WithinWindow(at(8, 0, 30), window))
	require.False(t, ct.WithinWindow(at(8, 0, 31), window))
	require.False(t, ct.WithinWindow(at(7, 59, 29), window))
	require.False(t, ct.WithinWindow(at(9, 0, 0), window))
}

// TestMedicationClone verifies deep copy semantics and nil safety.
func TestMedicationClone(t *testing.T) {
	t.Parallel()

	require.Nil(t, (*Medication)(nil).Clone())

	m := &Medication{ID: 3, Name: "Aspirin", Schedule: "08:00", Active: true}
	c := m.Clone()
	require.Equal(t, m, c)
	require.NotSame(t, m, c)
}
