// Package store persists medications and the two append-only logs.
//
// The Store interface is what the alarm engine consumes; the DB type
// implements it on SQLite via gorm, mirroring the original device schema
// (medications, intake_logs, vitals_logs). Medications are never deleted,
// only deactivated, so log entries keep a valid reference.
package store
