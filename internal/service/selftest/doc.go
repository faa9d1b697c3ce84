// Package selftest provides the hardware check routines behind the
// selftest commands: a visible/audible actuator sweep and a button echo
// loop for verifying the wiring before trusting the device with a
// schedule.
package selftest
