// Package config defines the device settings used by medhealthd and
// provides helpers to load, validate and save them in YAML format.
//
// Every temporal tunable of the alarm engine (acceptance window, poll
// intervals, acknowledgment and opt-in timeouts, debounce time) lives here,
// along with GPIO line names, sensor paths and vital sign thresholds.
// Validation fills unset fields with the firmware defaults.
package config
