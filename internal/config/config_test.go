package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidateDefaults verifies that validation fills the firmware defaults.
func TestValidateDefaults(t *testing.T) {
	t.Parallel()

	cfg := new(Config)
	require.NoError(t, Validate(cfg))

	require.Equal(t, DefaultDatabaseFilename, cfg.DatabasePath)
	require.Equal(t, 30*time.Second, cfg.Timings.DueWindow)
	require.Equal(t, 5*time.Second, cfg.Timings.SchedulerPoll)
	require.Equal(t, 10*time.Second, cfg.Timings.MonitorPoll)
	require.Equal(t, 60*time.Second, cfg.Timings.AckTimeout)
	require.Equal(t, 5*time.Second, cfg.Timings.VitalsOptIn)
	require.Equal(t, 50*time.Millisecond, cfg.Timings.Debounce)
	require.Equal(t, 20*time.Millisecond, cfg.Timings.ButtonPoll)
	require.InEpsilon(t, 18.0, cfg.Thresholds.TempMin, 1e-9)
	require.InEpsilon(t, 30.0, cfg.Thresholds.TempMax, 1e-9)
	require.Equal(t, 60, cfg.Thresholds.PulseMin)
	require.Equal(t, 120, cfg.Thresholds.PulseMax)
	require.Equal(t, DefaultButtonPin, cfg.Hardware.ButtonPin)
}

// TestValidateRejectsInvertedRanges checks range consistency errors.
func TestValidateRejectsInvertedRanges(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Thresholds: Thresholds{TempMin: 40, TempMax: 20, PulseMin: 60, PulseMax: 120},
	}
	require.Error(t, Validate(cfg))

	cfg = &Config{
		Thresholds: Thresholds{TempMin: 18, TempMax: 30, PulseMin: 200, PulseMax: 100},
	}
	require.Error(t, Validate(cfg))
}

// TestThresholdChecks verifies range membership helpers.
func TestThresholdChecks(t *testing.T) {
	t.Parallel()

	th := Thresholds{TempMin: 18, TempMax: 30, PulseMin: 60, PulseMax: 120}

	require.True(t, th.TempOK(18))
	require.True(t, th.TempOK(30))
	require.False(t, th.TempOK(31))
	require.True(t, th.PulseOK(60))
	require.False(t, th.PulseOK(121))
	require.False(t, th.PulseOK(59))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := &Config{
		DatabasePath: "/var/lib/medhealth/medhealth.db",
		Timings: Timings{
			DueWindow:  45 * time.Second,
			AckTimeout: 90 * time.Second,
		},
		Monitoring: Monitoring{Enabled: true},
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.DatabasePath, loaded.DatabasePath)
	require.Equal(t, 45*time.Second, loaded.Timings.DueWindow)
	require.Equal(t, 90*time.Second, loaded.Timings.AckTimeout)
	// Unset fields were defaulted during Save's validation.
	require.Equal(t, DefaultSchedulerPoll, loaded.Timings.SchedulerPoll)
	require.True(t, loaded.Monitoring.Enabled)
}

// TestLoadMissingFileYieldsDefaults ensures the daemon runs unconfigured.
func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultDatabaseFilename, cfg.DatabasePath)
	require.False(t, cfg.Monitoring.Enabled)
}
