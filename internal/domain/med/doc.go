// Package med contains the core domain types of the medication reminder:
// scheduled medications with "HH:MM" times of day, immutable intake log
// entries (taken/missed, optional vitals) and append-only vitals log
// entries, plus the acceptance-window arithmetic used by the scheduler.
package med
