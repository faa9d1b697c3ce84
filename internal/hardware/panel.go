package hardware

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/medhealth/medhealthd/internal/clock"
)

// Indicator names one of the three indicator lines on the device.
type Indicator int

const (
	// IndicatorHeart sits next to the pulse sensor.
	IndicatorHeart Indicator = iota
	// IndicatorTemp sits next to the thermometer.
	IndicatorTemp
	// IndicatorAck sits next to the acknowledgment button.
	IndicatorAck
)

// String returns the indicator name for logs.
func (i Indicator) String() string {
	switch i {
	case IndicatorHeart:
		return "heart"
	case IndicatorTemp:
		return "temp"
	case IndicatorAck:
		return "ack"
	default:
		return fmt.Sprintf("indicator(%d)", int(i))
	}
}

// output is one lazily opened digital output with single-retry recovery.
type output struct {
	// mu serializes access to the line.
	mu sync.Mutex
	// open (re)initializes the line.
	open OutputOpener
	// line is nil until first use and after an unrecovered fault.
	line OutputLine
}

// set drives the line, opening it on first use and retrying once through a
// re-initialization on failure.
func (o *output) set(on bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.line == nil {
		line, err := o.open()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrActuatorFault, err)
		}

		o.line = line
	}

	if err := o.line.Set(on); err == nil {
		return nil
	}

	// One lazy re-initialization, then give up for this call.
	line, err := o.open()
	if err != nil {
		o.line = nil
		return fmt.Errorf("%w: %w", ErrActuatorFault, err)
	}

	o.line = line
	if err = o.line.Set(on); err != nil {
		o.line = nil
		return fmt.Errorf("%w: %w", ErrActuatorFault, err)
	}

	return nil
}

// Panel is the actuator driver: three indicators plus the buzzer, with
// idempotent set operations and blocking pulse patterns.
type Panel struct {
	// clk paces the blocking patterns.
	clk clock.Clock
	// indicators maps each indicator to its output.
	indicators map[Indicator]*output
	// buzzer is the buzzing output.
	buzzer *output
}

// NewPanel builds a panel from line openers. Lines are opened lazily, so
// constructing a panel never touches hardware.
func NewPanel(clk clock.Clock, buzzer OutputOpener, indicators map[Indicator]OutputOpener) *Panel {
	p := &Panel{
		clk:        clk,
		indicators: make(map[Indicator]*output, len(indicators)),
		buzzer:     &output{open: buzzer},
	}

	for ind, opener := range indicators {
		p.indicators[ind] = &output{open: opener}
	}

	return p
}

// errUnknownIndicator is returned for an indicator the panel does not have.
var errUnknownIndicator = errors.New("unknown indicator")

// SetIndicator drives one indicator. Turning an uninitialized line off
// still succeeds and leaves it off.
func (p *Panel) SetIndicator(ind Indicator, on bool) error {
	out, ok := p.indicators[ind]
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownIndicator, ind)
	}

	return out.set(on)
}

// SetBuzzer drives the buzzer line.
func (p *Panel) SetBuzzer(on bool) error {
	return p.buzzer.set(on)
}

// PulseIndicator alternates the indicator on/off for the duration,
// blocking the calling goroutine. The line ends up off.
func (p *Panel) PulseIndicator(ctx context.Context, ind Indicator, duration, halfPeriod time.Duration) error {
	out, ok := p.indicators[ind]
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownIndicator, ind)
	}

	return p.pulse(ctx, out, duration, halfPeriod)
}

// BeepPattern alternates the buzzer on/off for the duration, blocking the
// calling goroutine. The buzzer ends up off.
func (p *Panel) BeepPattern(ctx context.Context, duration, halfPeriod time.Duration) error {
	return p.pulse(ctx, p.buzzer, duration, halfPeriod)
}

// ContinuousTone holds the buzzer on for the duration, then releases it.
// This is the "confirmed" signature, distinguishable from the beep pattern.
func (p *Panel) ContinuousTone(ctx context.Context, duration time.Duration) error {
	if err := p.buzzer.set(true); err != nil {
		return err
	}

	sleepErr := p.clk.Sleep(ctx, duration)

	if err := p.buzzer.set(false); err != nil {
		return err
	}

	return sleepErr
}

// pulse alternates one output for the duration and forces it off at the
// end, even when the context is canceled mid-pattern.
func (p *Panel) pulse(ctx context.Context, out *output, duration, halfPeriod time.Duration) error {
	end := p.clk.Now().Add(duration)

	var loopErr error

	for p.clk.Now().Before(end) {
		if loopErr = out.set(true); loopErr != nil {
			break
		}

		if loopErr = p.clk.Sleep(ctx, halfPeriod); loopErr != nil {
			break
		}

		if loopErr = out.set(false); loopErr != nil {
			break
		}

		if loopErr = p.clk.Sleep(ctx, halfPeriod); loopErr != nil {
			break
		}
	}

	if err := out.set(false); err != nil && loopErr == nil {
		loopErr = err
	}

	return loopErr
}

// AllOff forces every indicator and the buzzer off. It always attempts all
// lines and joins the failures; a stuck-on actuator on an unattended
// device is the failure mode this guards against.
func (p *Panel) AllOff() error {
	errs := make([]error, 0, len(p.indicators)+1)

	for _, out := range p.indicators {
		errs = append(errs, out.set(false))
	}

	errs = append(errs, p.buzzer.set(false))

	return errors.Join(errs...)
}
