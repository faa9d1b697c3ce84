package hardware

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Init loads the periph host drivers. It must be called once before any
// GPIO line is opened; simulate mode skips it entirely.
func Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init gpio host: %w", err)
	}

	return nil
}

// GPIOOutput returns an opener for the named GPIO line configured as an
// output driven low. The panel invokes it lazily and re-invokes it after
// a fault.
func GPIOOutput(name string) OutputOpener {
	return func() (OutputLine, error) {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("open output %q: %w", name, ErrActuatorFault)
		}

		if err := pin.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("drive output %q low: %w", name, err)
		}

		return &gpioOutput{pin: pin}, nil
	}
}

// gpioOutput adapts a periph pin to OutputLine.
type gpioOutput struct {
	// pin is the underlying GPIO pin.
	pin gpio.PinIO
}

// Set drives the pin high or low.
func (g *gpioOutput) Set(on bool) error {
	if err := g.pin.Out(gpio.Level(on)); err != nil {
		return fmt.Errorf("drive %s: %w", g.pin.Name(), err)
	}

	return nil
}

// OpenGPIOInput opens the named GPIO line as an input with the internal
// pull-up enabled. The acknowledgment button shorts the line to ground, so
// the electrical level is low when pressed; Read returns the logical state.
func OpenGPIOInput(name string) (InputLine, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("open input %q: no such GPIO line", name)
	}

	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure input %q: %w", name, err)
	}

	return &gpioInput{pin: pin}, nil
}

// gpioInput adapts an active-low periph pin to InputLine.
type gpioInput struct {
	// pin is the underlying GPIO pin.
	pin gpio.PinIO
}

// Read reports true while the button holds the line low.
func (g *gpioInput) Read() (bool, error) {
	return g.pin.Read() == gpio.Low, nil
}
