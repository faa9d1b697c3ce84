package med

import "time"

// Outcome is the resolution of one due event.
type Outcome string

const (
	// OutcomeTaken means the patient acknowledged within the window.
	OutcomeTaken Outcome = "taken"
	// OutcomeMissed means the acknowledgment window elapsed.
	OutcomeMissed Outcome = "missed"
)

// VitalsStatus classifies a set of readings against the thresholds.
type VitalsStatus string

const (
	// StatusNormal means every available reading is inside its range.
	StatusNormal VitalsStatus = "normal"
	// StatusAbnormal means at least one reading is out of range.
	StatusAbnormal VitalsStatus = "abnormal"
)

// IntakeLog records one resolved due event. Entries are immutable and
// exactly one is written per medication per calendar day resolution.
type IntakeLog struct {
	// ID is a UUID assigned at creation.
	ID string
	// MedicationID references the scheduled medication.
	MedicationID uint
	// MedicationName is a snapshot; the medication may later be
	// renamed or deactivated.
	MedicationName string
	// Scheduled is the "HH:MM" the dose was scheduled for.
	Scheduled string
	// ActualAt is when the event resolved (acknowledgment or timeout).
	ActualAt time.Time
	// Outcome is taken or missed.
	Outcome Outcome
	// Temperature is an optional captured temperature, °C.
	Temperature *float64
	// Pulse is an optional captured pulse, bpm.
	Pulse *int
	// CreatedAt is when the entry was written.
	CreatedAt time.Time
}

// VitalsLog is one appended vital-sign measurement.
type VitalsLog struct {
	// ID is a UUID assigned at creation.
	ID string
	// Temperature is an optional temperature reading, °C.
	Temperature *float64
	// Pulse is an optional pulse reading, bpm.
	Pulse *int
	// Status is derived from the thresholds at capture time.
	Status VitalsStatus
	// CreatedAt is when the entry was written.
	CreatedAt time.Time
}
