package sensors

import (
	"context"
	"errors"
)

// ErrUnavailable means a sensor produced no reading. Callers treat it as
// "no measurement", never as a loop-terminating failure.
var ErrUnavailable = errors.New("sensor unavailable")

// Reader is the measurement capability the alarm engine consumes.
type Reader interface {
	// ReadTemperature returns the current temperature in °C.
	ReadTemperature(ctx context.Context) (float64, error)
	// ReadPulse returns the current pulse in bpm.
	ReadPulse(ctx context.Context) (int, error)
}
