package clock

import (
	"context"
	"time"
)

// Clock abstracts wall time so loops and the alarm session can be tested
// without waiting out real intervals.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// Sleep blocks for the duration or until the context is canceled,
	// in which case it returns the context error.
	Sleep(ctx context.Context, d time.Duration) error
	// NewTicker returns a ticker firing every d.
	NewTicker(d time.Duration) Ticker
}

// Ticker is the minimal ticker surface the polling loops need.
type Ticker interface {
	// C returns the channel on which ticks are delivered.
	C() <-chan time.Time
	// Stop releases the ticker's resources.
	Stop()
}

// System is the Clock implementation backed by the runtime timer wheel.
type System struct{}

// Now returns the current wall time.
func (System) Now() time.Time {
	return time.Now()
}

// Sleep blocks for d, honoring context cancellation.
func (System) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NewTicker returns a ticker firing every d.
func (System) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

// systemTicker adapts *time.Ticker to the Ticker interface.
type systemTicker struct {
	t *time.Ticker
}

// C returns the underlying tick channel.
func (s systemTicker) C() <-chan time.Time {
	return s.t.C
}

// Stop releases the underlying ticker.
func (s systemTicker) Stop() {
	s.t.Stop()
}
