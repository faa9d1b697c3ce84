// Package monitor implements the periodic vitals threshold monitor. It
// samples temperature and pulse on a fixed interval, appends each cycle's
// readings to the vitals log, and flashes the matching indicator (plus
// the buzzer, when no alarm session owns it) for every cycle a reading
// stays outside its configured range.
package monitor
