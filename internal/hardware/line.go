package hardware

import (
	"errors"
	"sync"
)

// ErrActuatorFault marks a digital output that could not be driven even
// after lazy re-initialization. Callers log it and proceed without
// actuation rather than blocking an alarm session.
var ErrActuatorFault = errors.New("actuator fault")

// OutputLine is one digital output (an indicator or the buzzer line).
type OutputLine interface {
	// Set drives the line high (true) or low (false).
	Set(on bool) error
}

// InputLine is one digital input. Read returns the logical state:
// true means asserted (button held), regardless of electrical polarity.
type InputLine interface {
	Read() (bool, error)
}

// OutputOpener lazily opens an output line. The panel calls it on first
// use and again after a fault, which is what makes "turn it off even if it
// was never initialized" work.
type OutputOpener func() (OutputLine, error)

// MemoryOutput is an in-memory OutputLine used by simulate mode and tests.
type MemoryOutput struct {
	// mu protects the state below.
	mu sync.Mutex
	// on is the current line state.
	on bool
	// writes counts Set calls.
	writes int
	// failNext makes the next Set call fail once.
	failNext bool
}

// Set records the requested state.
func (m *MemoryOutput) Set(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++

	if m.failNext {
		m.failNext = false
		return errors.New("simulated line failure")
	}

	m.on = on

	return nil
}

// On reports the current state.
func (m *MemoryOutput) On() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.on
}

// Writes reports how many Set calls the line has seen.
func (m *MemoryOutput) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.writes
}

// FailNext makes the next Set call return an error.
func (m *MemoryOutput) FailNext() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failNext = true
}

// MemoryInput is an in-memory InputLine used by simulate mode and tests.
type MemoryInput struct {
	// mu protects the state below.
	mu sync.Mutex
	// asserted is the logical input state.
	asserted bool
}

// Read returns the logical input state.
func (m *MemoryInput) Read() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.asserted, nil
}

// SetAsserted drives the simulated input.
func (m *MemoryInput) SetAsserted(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.asserted = v
}
