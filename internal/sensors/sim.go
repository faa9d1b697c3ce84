package sensors

import (
	"context"
	"sync"
)

// Simulated is an in-memory Reader for simulate mode and tests. Values
// are fixed until changed; either channel can be made unavailable.
type Simulated struct {
	// mu protects the fields below.
	mu sync.Mutex
	// temperature is the value returned by ReadTemperature.
	temperature float64
	// pulse is the value returned by ReadPulse.
	pulse int
	// tempOK gates temperature availability.
	tempOK bool
	// pulseOK gates pulse availability.
	pulseOK bool
}

// NewSimulated returns a simulated reader preloaded with unremarkable
// resting vitals, mirroring the original firmware's mock mode.
func NewSimulated() *Simulated {
	return &Simulated{
		temperature: 36.6,
		pulse:       72,
		tempOK:      true,
		pulseOK:     true,
	}
}

// ReadTemperature returns the simulated temperature.
func (s *Simulated) ReadTemperature(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tempOK {
		return 0, ErrUnavailable
	}

	return s.temperature, nil
}

// ReadPulse returns the simulated pulse.
func (s *Simulated) ReadPulse(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pulseOK {
		return 0, ErrUnavailable
	}

	return s.pulse, nil
}

// SetTemperature sets the simulated temperature.
func (s *Simulated) SetTemperature(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.temperature, s.tempOK = v, true
}

// SetPulse sets the simulated pulse.
func (s *Simulated) SetPulse(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pulse, s.pulseOK = v, true
}

// SetUnavailable marks either channel as producing no reading.
func (s *Simulated) SetUnavailable(temperature, pulse bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tempOK, s.pulseOK = !temperature, !pulse
}
