// Package hardware wraps the device's physical I/O: the three indicator
// LEDs and the buzzer behind the Panel actuator driver, and the noisy
// acknowledgment input behind the debounced Button.
//
// Physical lines are opened through periph; simulate mode and tests use
// the in-memory implementations instead. Outputs are opened lazily and
// re-initialized once after a fault, so forcing a never-initialized line
// off still succeeds.
package hardware
