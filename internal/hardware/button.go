package hardware

import (
	"context"
	"time"

	"github.com/medhealth/medhealthd/internal/clock"
)

// Button debounces the raw acknowledgment input into reliable events.
//
// The raw line chatters electrically on both edges; a press counts only
// after the input stays asserted for the debounce time and is then
// observed released.
type Button struct {
	// line is the logical input (true while held).
	line InputLine
	// clk paces the polling.
	clk clock.Clock
	// debounce is the minimum continuous assertion for a valid press.
	debounce time.Duration
	// poll is the sampling interval.
	poll time.Duration
}

// NewButton wraps an input line with debouncing parameters.
func NewButton(line InputLine, clk clock.Clock, debounce, poll time.Duration) *Button {
	return &Button{
		line:     line,
		clk:      clk,
		debounce: debounce,
		poll:     poll,
	}
}

// IsPressed reports the instantaneous state. A read failure counts as not
// pressed: the pull-up makes "not pressed" the electrical default.
func (b *Button) IsPressed() bool {
	v, err := b.line.Read()

	return err == nil && v
}

// WaitForPress blocks until a validated press-then-release or the timeout.
// It returns true only after the input was asserted continuously for at
// least the debounce time and subsequently observed de-asserted. Context
// cancellation counts as no press.
func (b *Button) WaitForPress(ctx context.Context, timeout time.Duration) bool {
	var (
		deadline   = b.clk.Now().Add(timeout)
		held       = false
		pressStart time.Time
	)

	for b.clk.Now().Before(deadline) {
		if ctx.Err() != nil {
			return false
		}

		switch {
		case !b.IsPressed():
			// Released (or chatter); restart the qualification.
			held = false
		case !held:
			// Press edge: start the debounce timer.
			held = true
			pressStart = b.clk.Now()
		case b.clk.Now().Sub(pressStart) >= b.debounce:
			// Held long enough; wait one poll and confirm release.
			if b.clk.Sleep(ctx, b.poll) != nil {
				return false
			}

			if !b.IsPressed() {
				return true
			}
		}

		if b.clk.Sleep(ctx, b.poll) != nil {
			return false
		}
	}

	return false
}
