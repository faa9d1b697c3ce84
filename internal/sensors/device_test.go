package sensors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeW1Slave lays out a fake 1-wire slave under dir.
func writeW1Slave(t *testing.T, dir, id, payload string) {
	t.Helper()

	slaveDir := filepath.Join(dir, id)
	require.NoError(t, os.MkdirAll(slaveDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(slaveDir, "w1_slave"), []byte(payload), 0o644))
}

// TestReadTemperature parses a healthy DS18B20 payload.
func TestReadTemperature(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeW1Slave(t, dir, "28-000005e2fdc3",
		"a5 01 4b 46 7f ff 0b 10 5e : crc=5e YES\na5 01 4b 46 7f ff 0b 10 5e t=26312\n")

	got, err := NewDevice(dir, "").ReadTemperature(context.Background())
	require.NoError(t, err)
	require.InEpsilon(t, 26.3, got, 1e-9)
}

// TestReadTemperatureCRCFailure treats a NO payload as unavailable.
func TestReadTemperatureCRCFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeW1Slave(t, dir, "28-000005e2fdc3",
		"a5 01 4b 46 7f ff 0b 10 5e : crc=5e NO\na5 01 4b 46 7f ff 0b 10 5e t=26312\n")

	_, err := NewDevice(dir, "").ReadTemperature(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

// TestReadTemperatureNoBus reports unavailable without a thermometer.
func TestReadTemperatureNoBus(t *testing.T) {
	t.Parallel()

	_, err := NewDevice(t.TempDir(), "").ReadTemperature(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = NewDevice("", "").ReadTemperature(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

// TestReadPulse reads and validates the bpm attribute.
func TestReadPulse(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "heart_rate")
	require.NoError(t, os.WriteFile(path, []byte("72\n"), 0o644))

	got, err := NewDevice("", path).ReadPulse(context.Background())
	require.NoError(t, err)
	require.Equal(t, 72, got)
}

// TestReadPulseUnavailable covers the failure shapes of the pulse channel.
func TestReadPulseUnavailable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// No path configured.
	_, err := NewDevice("", "").ReadPulse(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)

	// Missing file.
	_, err = NewDevice("", filepath.Join(dir, "absent")).ReadPulse(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)

	// Sensor still settling reports zero.
	path := filepath.Join(dir, "heart_rate")
	require.NoError(t, os.WriteFile(path, []byte("0\n"), 0o644))

	_, err = NewDevice("", path).ReadPulse(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}
