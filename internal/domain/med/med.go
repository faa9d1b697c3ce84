package med

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSchedule is returned for a time-of-day that does not parse as
// a 24-hour HH:MM value. The scheduler skips such medications for the scan
// instead of deactivating them.
var ErrInvalidSchedule = errors.New("invalid schedule time")

// Medication is a scheduled medication as entered by the user.
type Medication struct {
	// ID is the database identifier; insertion order doubles as the
	// tie-break when several medications fall due in the same scan.
	ID uint
	// Name is the display name shown on reminders and in logs.
	Name string
	// Schedule is the time of day in 24-hour "HH:MM" form.
	Schedule string
	// Active reports whether the medication still triggers alarms.
	// Removal deactivates; rows are never deleted.
	Active bool
	// CreatedAt is when the medication was entered.
	CreatedAt time.Time
}

// Clone returns a copy to avoid leaking internal references.
func (m *Medication) Clone() *Medication {
	if m == nil {
		return nil
	}

	cloned := *m

	return &cloned
}

// ClockTime is a wall-clock time of day.
type ClockTime struct {
	// Hour is in [0, 23].
	Hour int
	// Minute is in [0, 59].
	Minute int
}

// ParseClockTime parses a 24-hour "HH:MM" string.
func ParseClockTime(s string) (ClockTime, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidSchedule, s)
	}

	hour, err := strconv.Atoi(hh)
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidSchedule, s)
	}

	minute, err := strconv.Atoi(mm)
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidSchedule, s)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidSchedule, s)
	}

	return ClockTime{Hour: hour, Minute: minute}, nil
}

// String renders the time of day back to "HH:MM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On anchors the time of day to the calendar day of the provided instant,
// in that instant's location.
func (c ClockTime) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

// WithinWindow reports whether now lies inside the ±window acceptance
// interval around the scheduled time of day on now's calendar day.
func (c ClockTime) WithinWindow(now time.Time, window time.Duration) bool {
	diff := now.Sub(c.On(now))
	if diff < 0 {
		diff = -diff
	}

	return diff <= window
}
