package selftest

import (
	"context"
	"sync"
	"time"

	"github.com/medhealth/medhealthd/internal/clock"
	"github.com/medhealth/medhealthd/internal/hardware"
	"github.com/medhealth/medhealthd/internal/logger"
)

// Cadence of the alarm self-test pattern.
const (
	alarmTestDuration   = 3 * time.Second
	alarmTestHalfPeriod = 250 * time.Millisecond
)

// Service exercises the attached actuators and the acknowledgment button
// without touching the database or the scheduling loops.
type Service struct {
	panel  *hardware.Panel
	button *hardware.Button
	clk    clock.Clock
}

// New builds the self-test service.
func New(panel *hardware.Panel, button *hardware.Button, clk clock.Clock) *Service {
	return &Service{panel: panel, button: button, clk: clk}
}

// Alarm flashes all three indicators and beeps the buzzer for a few
// seconds, then forces everything off. A partially lit panel points at
// the faulty line.
func (s *Service) Alarm(ctx context.Context) error {
	logger.Info(ctx, "Alarm self-test started")

	var wg sync.WaitGroup

	for _, ind := range []hardware.Indicator{
		hardware.IndicatorHeart,
		hardware.IndicatorTemp,
		hardware.IndicatorAck,
	} {
		ind := ind
		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := s.panel.PulseIndicator(ctx, ind, alarmTestDuration, alarmTestHalfPeriod); err != nil {
				logger.ErrorKV(ctx, "Indicator self-test fault",
					"indicator", ind.String(), "error", err)
			}
		}()
	}

	beepErr := s.panel.BeepPattern(ctx, alarmTestDuration, alarmTestHalfPeriod)

	wg.Wait()

	if err := s.panel.AllOff(); err != nil {
		return err
	}

	logger.Info(ctx, "Alarm self-test finished")

	return beepErr
}

// Button echoes the raw button state onto the acknowledgment indicator
// and buzzer until the timeout: actuators on while held, off when
// released. It reports whether a press was observed at all.
func (s *Service) Button(ctx context.Context, timeout time.Duration) (bool, error) {
	logger.InfoKV(ctx, "Button self-test started", "timeout", timeout.String())

	var (
		deadline = s.clk.Now().Add(timeout)
		observed = false
		last     = false
	)

	defer func() {
		if err := s.panel.AllOff(); err != nil {
			logger.ErrorKV(ctx, "Releasing actuators failed", "error", err)
		}
	}()

	for s.clk.Now().Before(deadline) {
		if ctx.Err() != nil {
			return observed, ctx.Err()
		}

		pressed := s.button.IsPressed()

		if pressed != last {
			last = pressed
			observed = observed || pressed

			if err := s.panel.SetIndicator(hardware.IndicatorAck, pressed); err != nil {
				return observed, err
			}

			if err := s.panel.SetBuzzer(pressed); err != nil {
				return observed, err
			}
		}

		if err := s.clk.Sleep(ctx, 20*time.Millisecond); err != nil {
			return observed, err
		}
	}

	logger.InfoKV(ctx, "Button self-test finished", "press_observed", observed)

	return observed, nil
}
