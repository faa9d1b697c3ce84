// Package scheduler contains the alarm scheduler loop and the alarm
// session state machine. The loop scans active medications every poll
// interval for schedules inside the due window; a due medication without
// a taken entry for the current day starts a session that alarms, waits
// for a debounced acknowledgment, optionally captures vitals, and writes
// exactly one intake entry.
package scheduler
