package vitals

import (
	"context"
	"fmt"

	"github.com/medhealth/medhealthd/internal/clock"
	"github.com/medhealth/medhealthd/internal/config"
	"github.com/medhealth/medhealthd/internal/domain/med"
	"github.com/medhealth/medhealthd/internal/logger"
	"github.com/medhealth/medhealthd/internal/repository/store"
	"github.com/medhealth/medhealthd/internal/sensors"
)

// Measurement is one attempted temperature + pulse capture. Either field
// is nil when the sensor produced no reading.
type Measurement struct {
	// Temperature in °C, if available.
	Temperature *float64
	// Pulse in bpm, if available.
	Pulse *int
}

// Empty reports whether neither sensor produced a value.
func (m Measurement) Empty() bool {
	return m.Temperature == nil && m.Pulse == nil
}

// Status classifies the measurement: abnormal when any available reading
// falls outside its acceptable range.
func (m Measurement) Status(th config.Thresholds) med.VitalsStatus {
	if m.Temperature != nil && !th.TempOK(*m.Temperature) {
		return med.StatusAbnormal
	}

	if m.Pulse != nil && !th.PulseOK(*m.Pulse) {
		return med.StatusAbnormal
	}

	return med.StatusNormal
}

// Capture reads both sensors. An unavailable sensor is logged at debug
// level and leaves the corresponding field nil; it is never an error.
func Capture(ctx context.Context, reader sensors.Reader) Measurement {
	var m Measurement

	if temp, err := reader.ReadTemperature(ctx); err != nil {
		logger.DebugKV(ctx, "No temperature reading", "error", err)
	} else {
		m.Temperature = &temp
	}

	if pulse, err := reader.ReadPulse(ctx); err != nil {
		logger.DebugKV(ctx, "No pulse reading", "error", err)
	} else {
		m.Pulse = &pulse
	}

	return m
}

// Record appends the measurement to the vitals log and returns the entry.
func Record(
	ctx context.Context,
	st store.Store,
	clk clock.Clock,
	m Measurement,
	th config.Thresholds,
) (*med.VitalsLog, error) {
	entry := &med.VitalsLog{
		Temperature: m.Temperature,
		Pulse:       m.Pulse,
		Status:      m.Status(th),
		CreatedAt:   clk.Now(),
	}

	if err := st.AppendVitalsLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("append vitals log: %w", err)
	}

	return entry, nil
}
