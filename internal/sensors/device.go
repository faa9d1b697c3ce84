package sensors

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Device reads vitals from the kernel's sysfs interfaces: a DS18B20
// thermometer on the 1-wire bus and a pulse sensor exporting bpm through a
// single attribute file.
type Device struct {
	// w1Dir is the 1-wire devices directory.
	w1Dir string
	// pulsePath is the attribute file holding the pulse in bpm.
	pulsePath string
}

// NewDevice builds a sysfs-backed reader. Either path may be empty, in
// which case the corresponding measurement is reported unavailable.
func NewDevice(w1Dir, pulsePath string) *Device {
	return &Device{
		w1Dir:     w1Dir,
		pulsePath: pulsePath,
	}
}

// w1Prefix is the family code prefix of DS18B20 slaves on the 1-wire bus.
const w1Prefix = "28-"

// ReadTemperature reads the first DS18B20 slave found on the bus.
//
// The kernel's w1_slave file carries two lines; the second ends with
// "t=<millidegrees>". A failed CRC shows "NO" on the first line.
func (d *Device) ReadTemperature(_ context.Context) (float64, error) {
	if d.w1Dir == "" {
		return 0, ErrUnavailable
	}

	entries, err := os.ReadDir(d.w1Dir)
	if err != nil {
		return 0, fmt.Errorf("%w: scan 1-wire bus: %w", ErrUnavailable, err)
	}

	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), w1Prefix) {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(d.w1Dir, entry.Name(), "w1_slave"))
		if err != nil {
			continue
		}

		value, err := parseW1Slave(string(raw))
		if err != nil {
			continue
		}

		return value, nil
	}

	return 0, fmt.Errorf("%w: no thermometer on 1-wire bus", ErrUnavailable)
}

// errBadReading marks an unparsable or CRC-failed w1_slave payload.
var errBadReading = errors.New("bad thermometer reading")

// parseW1Slave extracts the temperature from a w1_slave payload,
// rounded to one decimal as the device reports it.
func parseW1Slave(raw string) (float64, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) < 2 || !strings.HasSuffix(strings.TrimSpace(lines[0]), "YES") {
		return 0, errBadReading
	}

	_, milli, ok := strings.Cut(lines[1], "t=")
	if !ok {
		return 0, errBadReading
	}

	value, err := strconv.Atoi(strings.TrimSpace(milli))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errBadReading, err)
	}

	return math.Round(float64(value)/100) / 10, nil
}

// ReadPulse reads the pulse attribute file.
func (d *Device) ReadPulse(_ context.Context) (int, error) {
	if d.pulsePath == "" {
		return 0, ErrUnavailable
	}

	raw, err := os.ReadFile(d.pulsePath)
	if err != nil {
		return 0, fmt.Errorf("%w: read pulse sensor: %w", ErrUnavailable, err)
	}

	value, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("%w: parse pulse sensor: %w", ErrUnavailable, err)
	}

	if value <= 0 {
		return 0, fmt.Errorf("%w: pulse sensor settling", ErrUnavailable)
	}

	return value, nil
}
