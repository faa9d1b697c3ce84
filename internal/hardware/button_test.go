package hardware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/medhealth/medhealthd/internal/clock"
)

// scriptedInput replays a fixed sequence of states, one per Read call,
// holding the final state afterwards.
type scriptedInput struct {
	// states is the sequence of logical reads.
	states []bool
	// idx is the next state to return.
	idx int
}

// Read returns the next scripted state.
func (s *scriptedInput) Read() (bool, error) {
	if len(s.states) == 0 {
		return false, nil
	}

	if s.idx < len(s.states) {
		v := s.states[s.idx]
		s.idx++

		return v, nil
	}

	return s.states[len(s.states)-1], nil
}

// timedInput asserts between two instants on the fake clock.
type timedInput struct {
	// clk is the clock the button polls with.
	clk *clock.Fake
	// pressAt is when the line starts reading asserted.
	pressAt time.Time
	// releaseAt is when the line reads released again.
	releaseAt time.Time
}

// Read derives the state from the fake time.
func (s *timedInput) Read() (bool, error) {
	now := s.clk.Now()

	return !now.Before(s.pressAt) && now.Before(s.releaseAt), nil
}

// failingInput always errors.
type failingInput struct{}

// Read fails unconditionally.
func (failingInput) Read() (bool, error) {
	return false, errors.New("line unreadable")
}

// newTestButton builds a button with the firmware debounce parameters over
// a fake clock, so each poll advances deterministic fake time.
func newTestButton(line InputLine) (*Button, *clock.Fake) {
	fake := clock.NewFake(time.Unix(0, 0))

	return NewButton(line, fake, 50*time.Millisecond, 20*time.Millisecond), fake
}

// TestWaitForPressValidated verifies a 60 ms hold followed by a release
// yields a validated press.
func TestWaitForPressValidated(t *testing.T) {
	t.Parallel()

	button, _ := newTestButton(&scriptedInput{states: []bool{true, true, true, true, false}})

	require.True(t, button.WaitForPress(context.Background(), time.Second))
}

// TestWaitForPressRejectsChatter verifies a 30 ms assertion never
// qualifies: the input deasserts before the debounce time elapses.
func TestWaitForPressRejectsChatter(t *testing.T) {
	t.Parallel()

	button, _ := newTestButton(&scriptedInput{states: []bool{true, true, false}})

	require.False(t, button.WaitForPress(context.Background(), 500*time.Millisecond))
}

// TestWaitForPressRequiresRelease verifies a button held past the timeout
// never validates: press-then-release is the contract.
func TestWaitForPressRequiresRelease(t *testing.T) {
	t.Parallel()

	button, _ := newTestButton(&scriptedInput{states: []bool{true}})

	require.False(t, button.WaitForPress(context.Background(), 500*time.Millisecond))
}

// TestWaitForPressTimesOutOnSilence verifies an idle line returns false.
func TestWaitForPressTimesOutOnSilence(t *testing.T) {
	t.Parallel()

	button, fake := newTestButton(&scriptedInput{})
	start := fake.Now()

	require.False(t, button.WaitForPress(context.Background(), time.Second))
	require.GreaterOrEqual(t, fake.Now().Sub(start), time.Second)
}

// TestWaitForPressCanceled verifies context cancellation counts as no press.
func TestWaitForPressCanceled(t *testing.T) {
	t.Parallel()

	button, _ := newTestButton(&scriptedInput{states: []bool{true, true, true, true, false}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.False(t, button.WaitForPress(ctx, time.Second))
}

// TestWaitForPressJustBeforeDeadline validates a press completing at
// 59.9 s into a 60 s window.
func TestWaitForPressJustBeforeDeadline(t *testing.T) {
	t.Parallel()

	fake := clock.NewFake(time.Unix(0, 0))
	start := fake.Now()
	line := &timedInput{
		clk:       fake,
		pressAt:   start.Add(59*time.Second + 780*time.Millisecond),
		releaseAt: start.Add(59*time.Second + 900*time.Millisecond),
	}

	button := NewButton(line, fake, 50*time.Millisecond, 20*time.Millisecond)
	require.True(t, button.WaitForPress(context.Background(), time.Minute))
	require.Less(t, fake.Now().Sub(start), time.Minute)
}

// TestWaitForPressJustAfterDeadline rejects a press arriving at 60.1 s.
func TestWaitForPressJustAfterDeadline(t *testing.T) {
	t.Parallel()

	fake := clock.NewFake(time.Unix(0, 0))
	start := fake.Now()
	line := &timedInput{
		clk:       fake,
		pressAt:   start.Add(60*time.Second + 100*time.Millisecond),
		releaseAt: start.Add(60*time.Second + 300*time.Millisecond),
	}

	button := NewButton(line, fake, 50*time.Millisecond, 20*time.Millisecond)
	require.False(t, button.WaitForPress(context.Background(), time.Minute))
}

// TestIsPressed verifies the instantaneous query and its failure default.
func TestIsPressed(t *testing.T) {
	t.Parallel()

	pressed := new(MemoryInput)
	pressed.SetAsserted(true)

	require.True(t, NewButton(pressed, clock.System{}, 0, 0).IsPressed())
	require.False(t, NewButton(new(MemoryInput), clock.System{}, 0, 0).IsPressed())
	// Read failures default to "not pressed", matching the pull-up bias.
	require.False(t, NewButton(failingInput{}, clock.System{}, 0, 0).IsPressed())
}
