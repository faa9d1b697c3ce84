package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/medhealth/medhealthd/internal/arbiter"
	"github.com/medhealth/medhealthd/internal/clock"
	"github.com/medhealth/medhealthd/internal/config"
	"github.com/medhealth/medhealthd/internal/hardware"
	"github.com/medhealth/medhealthd/internal/logger"
	"github.com/medhealth/medhealthd/internal/repository/store"
	"github.com/medhealth/medhealthd/internal/sensors"
	"github.com/medhealth/medhealthd/internal/service/vitals"
)

// alertHalfPeriod is the on/off cadence of the alert flashes and beeps.
const alertHalfPeriod = 250 * time.Millisecond

// Deps bundles everything the threshold monitor needs.
type Deps struct {
	// Store receives one vitals entry per sampling cycle.
	Store store.Store
	// Panel drives the per-parameter indicators and the buzzer.
	Panel *hardware.Panel
	// Sensors provides the periodic readings.
	Sensors sensors.Reader
	// Clock paces the loop and the alert patterns.
	Clock clock.Clock
	// Arbiter yields the buzzer to an in-flight alarm session.
	Arbiter *arbiter.Arbiter
	// Thresholds are the acceptable ranges.
	Thresholds config.Thresholds
	// Timings holds the poll interval and alert pattern length.
	Timings config.Timings
	// Enabled is the initial monitoring state.
	Enabled bool
}

// Service samples temperature and pulse every poll interval and raises a
// visual and audible alert for every cycle a reading stays out of range.
// The alert is level-triggered: a sustained abnormal reading alerts on
// every poll, not only on the transition.
type Service struct {
	st         store.Store
	panel      *hardware.Panel
	sensors    sensors.Reader
	clk        clock.Clock
	arb        *arbiter.Arbiter
	thresholds config.Thresholds
	timings    config.Timings

	// enabled gates sampling; flipped at runtime by SIGUSR1.
	enabled atomic.Bool
	// wg tracks in-flight alert patterns so shutdown can join them.
	wg sync.WaitGroup
}

// New builds the monitor from its dependencies.
func New(deps Deps) *Service {
	s := &Service{
		st:         deps.Store,
		panel:      deps.Panel,
		sensors:    deps.Sensors,
		clk:        deps.Clock,
		arb:        deps.Arbiter,
		thresholds: deps.Thresholds,
		timings:    deps.Timings,
	}

	s.enabled.Store(deps.Enabled)

	return s
}

// Enabled reports whether sampling is currently active.
func (s *Service) Enabled() bool {
	return s.enabled.Load()
}

// Toggle flips the sampling state and returns the new value.
func (s *Service) Toggle() bool {
	for {
		old := s.enabled.Load()
		if s.enabled.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Run samples until the context is canceled, then joins any alert pattern
// still playing before returning.
func (s *Service) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "threshold-monitor")

	logger.InfoKV(ctx, "Threshold monitor started",
		"poll", s.timings.MonitorPoll.String(),
		"enabled", s.Enabled(),
		"temp_range", [2]float64{s.thresholds.TempMin, s.thresholds.TempMax},
		"pulse_range", [2]int{s.thresholds.PulseMin, s.thresholds.PulseMax})

	ticker := s.clk.NewTicker(s.timings.MonitorPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			logger.Info(ctx, "Threshold monitor stopped")

			return nil
		case <-ticker.C():
			if !s.Enabled() {
				continue
			}

			if err := s.checkOnce(ctx); err != nil {
				logger.ErrorKV(ctx, "Sampling cycle failed", "error", err)
			}
		}
	}
}

// checkOnce takes one sample, records it, and raises alerts for every
// parameter outside its range. Cycles where neither sensor produced a
// reading are not recorded.
func (s *Service) checkOnce(ctx context.Context) error {
	m := vitals.Capture(ctx, s.sensors)
	if m.Empty() {
		return nil
	}

	entry, err := vitals.Record(ctx, s.st, s.clk, m, s.thresholds)
	if err != nil {
		return err
	}

	tempBad := m.Temperature != nil && !s.thresholds.TempOK(*m.Temperature)
	pulseBad := m.Pulse != nil && !s.thresholds.PulseOK(*m.Pulse)

	if !tempBad && !pulseBad {
		return nil
	}

	logger.WarnKV(ctx, "Vitals out of range",
		"temperature", m.Temperature,
		"pulse", m.Pulse,
		"status", string(entry.Status))

	s.raiseAlert(ctx, tempBad, pulseBad)

	return nil
}

// raiseAlert plays the alert pattern on a tracked goroutine so sampling
// continues on schedule. The buzzer joins in only when the actuators are
// not owned by an alarm session; indicators always flash.
func (s *Service) raiseAlert(ctx context.Context, tempBad, pulseBad bool) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		var inner sync.WaitGroup

		flash := func(ind hardware.Indicator) {
			inner.Add(1)

			go func() {
				defer inner.Done()

				if err := s.panel.PulseIndicator(ctx, ind, s.timings.AlertPattern, alertHalfPeriod); err != nil {
					logger.ErrorKV(ctx, "Alert indicator fault", "indicator", ind.String(), "error", err)
				}
			}()
		}

		if tempBad {
			flash(hardware.IndicatorTemp)
		}

		if pulseBad {
			flash(hardware.IndicatorHeart)
		}

		if token, ok := s.arb.Acquire("threshold-monitor"); ok {
			if err := s.panel.BeepPattern(ctx, s.timings.AlertPattern, alertHalfPeriod); err != nil {
				logger.ErrorKV(ctx, "Alert buzzer fault", "error", err)
			}

			token.Release()
		} else {
			logger.Debug(ctx, "Buzzer busy, flashing indicators only")
		}

		inner.Wait()
	}()
}
