package clock

import (
	"context"
	"sync"
	"time"
)

// Fake is a deterministic Clock for tests. Sleep advances the fake time
// instantly instead of blocking, and ticks are delivered manually.
type Fake struct {
	// mu protects the current time.
	mu sync.Mutex
	// now is the fake current time.
	now time.Time
}

// NewFake returns a Fake clock positioned at the provided instant.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

// Now returns the fake current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

// Set repositions the fake clock.
func (f *Fake) Set(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = now
}

// Advance moves the fake clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)
}

// Sleep advances the fake time by d without blocking.
// Context cancellation is still honored so shutdown paths stay testable.
func (f *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if d > 0 {
		f.Advance(d)
	}

	return nil
}

// NewTicker returns a manually driven ticker.
func (f *Fake) NewTicker(time.Duration) Ticker {
	return &FakeTicker{ch: make(chan time.Time, 1)}
}

// FakeTicker is a Ticker driven by explicit Tick calls.
type FakeTicker struct {
	// ch delivers the manually produced ticks.
	ch chan time.Time
}

// C returns the tick channel.
func (t *FakeTicker) C() <-chan time.Time {
	return t.ch
}

// Tick delivers one tick carrying the provided instant.
func (t *FakeTicker) Tick(now time.Time) {
	t.ch <- now
}

// Stop is a no-op for the fake ticker.
func (t *FakeTicker) Stop() {}
