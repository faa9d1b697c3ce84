package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/medhealth/medhealthd/internal/domain/med"
)

// medicationRecord is the gorm model for the medications table.
type medicationRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Schedule  string `gorm:"column:schedule_time;not null"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
}

// TableName keeps the table name of the original schema.
func (medicationRecord) TableName() string { return "medications" }

// intakeLogRecord is the gorm model for the intake_logs table.
type intakeLogRecord struct {
	ID             string `gorm:"primaryKey"`
	MedicationID   uint   `gorm:"index;not null"`
	MedicationName string `gorm:"not null"`
	ScheduledTime  string `gorm:"not null"`
	ActualTime     time.Time
	Outcome        string `gorm:"index;not null"`
	Temperature    *float64
	Pulse          *int
	CreatedAt      time.Time `gorm:"index"`
}

// TableName names the intake log table.
func (intakeLogRecord) TableName() string { return "intake_logs" }

// vitalsLogRecord is the gorm model for the vitals_logs table.
type vitalsLogRecord struct {
	ID          string `gorm:"primaryKey"`
	Temperature *float64
	Pulse       *int
	Status      string `gorm:"not null"`
	CreatedAt   time.Time
}

// TableName names the vitals log table.
func (vitalsLogRecord) TableName() string { return "vitals_logs" }

// DB is the SQLite-backed Store implementation.
type DB struct {
	// db is the gorm handle.
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite database at path and runs
// the schema migration.
func Open(path string) (*DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now()
		},
	}

	db, err := gorm.Open(sqlite.Open(path), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err = db.AutoMigrate(&medicationRecord{}, &intakeLogRecord{}, &vitalsLogRecord{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &DB{db: db}, nil
}

// AddMedication inserts a new active medication.
func (s *DB) AddMedication(ctx context.Context, name, schedule string) (*med.Medication, error) {
	if _, err := med.ParseClockTime(schedule); err != nil {
		return nil, err
	}

	record := &medicationRecord{
		Name:     name,
		Schedule: schedule,
		Active:   true,
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("insert medication: %w", err)
	}

	return medicationFromRecord(record), nil
}

// ListActiveMedications returns active medications in insertion order.
func (s *DB) ListActiveMedications(ctx context.Context) ([]med.Medication, error) {
	return s.listMedications(ctx, s.db.WithContext(ctx).Where("active = ?", true))
}

// ListMedications returns every medication in insertion order.
func (s *DB) ListMedications(ctx context.Context) ([]med.Medication, error) {
	return s.listMedications(ctx, s.db.WithContext(ctx))
}

// listMedications runs the shared medication query with ordering applied.
func (s *DB) listMedications(_ context.Context, tx *gorm.DB) ([]med.Medication, error) {
	var records []medicationRecord
	if err := tx.Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}

	result := make([]med.Medication, 0, len(records))
	for i := range records {
		result = append(result, *medicationFromRecord(&records[i]))
	}

	return result, nil
}

// DeactivateMedication marks the medication inactive.
func (s *DB) DeactivateMedication(ctx context.Context, id uint) error {
	tx := s.db.WithContext(ctx).
		Model(&medicationRecord{}).
		Where("id = ?", id).
		Update("active", false)
	if tx.Error != nil {
		return fmt.Errorf("deactivate medication: %w", tx.Error)
	}

	if tx.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// HasIntakeToday reports whether an entry with the outcome exists for the
// medication on day's calendar date.
func (s *DB) HasIntakeToday(
	ctx context.Context,
	medicationID uint,
	outcome med.Outcome,
	day time.Time,
) (bool, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var count int64

	err := s.db.WithContext(ctx).
		Model(&intakeLogRecord{}).
		Where("medication_id = ? AND outcome = ? AND created_at >= ? AND created_at < ?",
			medicationID, string(outcome), start, end).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count intake entries: %w", err)
	}

	return count > 0, nil
}

// AppendIntakeLog writes one immutable intake entry.
// A zero entry ID is assigned a fresh UUID.
func (s *DB) AppendIntakeLog(ctx context.Context, entry *med.IntakeLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	record := &intakeLogRecord{
		ID:             entry.ID,
		MedicationID:   entry.MedicationID,
		MedicationName: entry.MedicationName,
		ScheduledTime:  entry.Scheduled,
		ActualTime:     entry.ActualAt,
		Outcome:        string(entry.Outcome),
		Temperature:    entry.Temperature,
		Pulse:          entry.Pulse,
		CreatedAt:      entry.CreatedAt,
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("insert intake entry: %w", err)
	}

	return nil
}

// RecentIntakeLogs returns up to limit entries, newest first.
func (s *DB) RecentIntakeLogs(ctx context.Context, limit int) ([]med.IntakeLog, error) {
	var records []intakeLogRecord

	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list intake entries: %w", err)
	}

	result := make([]med.IntakeLog, 0, len(records))
	for i := range records {
		r := &records[i]
		result = append(result, med.IntakeLog{
			ID:             r.ID,
			MedicationID:   r.MedicationID,
			MedicationName: r.MedicationName,
			Scheduled:      r.ScheduledTime,
			ActualAt:       r.ActualTime,
			Outcome:        med.Outcome(r.Outcome),
			Temperature:    r.Temperature,
			Pulse:          r.Pulse,
			CreatedAt:      r.CreatedAt,
		})
	}

	return result, nil
}

// AppendVitalsLog writes one vitals entry.
// A zero entry ID is assigned a fresh UUID.
func (s *DB) AppendVitalsLog(ctx context.Context, entry *med.VitalsLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	record := &vitalsLogRecord{
		ID:          entry.ID,
		Temperature: entry.Temperature,
		Pulse:       entry.Pulse,
		Status:      string(entry.Status),
		CreatedAt:   entry.CreatedAt,
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("insert vitals entry: %w", err)
	}

	return nil
}

// RecentVitalsLogs returns up to limit entries, newest first.
func (s *DB) RecentVitalsLogs(ctx context.Context, limit int) ([]med.VitalsLog, error) {
	var records []vitalsLogRecord

	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list vitals entries: %w", err)
	}

	result := make([]med.VitalsLog, 0, len(records))
	for i := range records {
		r := &records[i]
		result = append(result, med.VitalsLog{
			ID:          r.ID,
			Temperature: r.Temperature,
			Pulse:       r.Pulse,
			Status:      med.VitalsStatus(r.Status),
			CreatedAt:   r.CreatedAt,
		})
	}

	return result, nil
}

// Close releases the underlying SQLite handle.
func (s *DB) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("unwrap database handle: %w", err)
	}

	if err = sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	return nil
}

var _ Store = (*DB)(nil)

// medicationFromRecord maps a gorm row to the domain type.
func medicationFromRecord(r *medicationRecord) *med.Medication {
	return &med.Medication{
		ID:        r.ID,
		Name:      r.Name,
		Schedule:  r.Schedule,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
	}
}
