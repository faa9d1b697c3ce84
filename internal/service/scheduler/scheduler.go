package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/medhealth/medhealthd/internal/arbiter"
	"github.com/medhealth/medhealthd/internal/clock"
	"github.com/medhealth/medhealthd/internal/config"
	"github.com/medhealth/medhealthd/internal/domain/med"
	"github.com/medhealth/medhealthd/internal/hardware"
	"github.com/medhealth/medhealthd/internal/logger"
	"github.com/medhealth/medhealthd/internal/repository/store"
	"github.com/medhealth/medhealthd/internal/sensors"
)

// Deps bundles everything the alarm scheduler needs.
type Deps struct {
	// Store is the medication and log persistence.
	Store store.Store
	// Panel drives the indicators and buzzer.
	Panel *hardware.Panel
	// Button is the debounced acknowledgment input.
	Button *hardware.Button
	// Sensors provides the opt-in vitals capture.
	Sensors sensors.Reader
	// Clock paces the loop and timestamps resolutions.
	Clock clock.Clock
	// Arbiter serializes buzzer ownership with the threshold monitor.
	Arbiter *arbiter.Arbiter
	// Timings holds the poll interval, windows and timeouts.
	Timings config.Timings
}

// Service is the alarm scheduler: it scans for due medications every poll
// interval and drives one alarm session at a time to completion.
type Service struct {
	store   store.Store
	panel   *hardware.Panel
	button  *hardware.Button
	sensors sensors.Reader
	clk     clock.Clock
	arb     *arbiter.Arbiter
	timings config.Timings
}

// New builds the scheduler from its dependencies.
func New(deps Deps) *Service {
	return &Service{
		store:   deps.Store,
		panel:   deps.Panel,
		button:  deps.Button,
		sensors: deps.Sensors,
		clk:     deps.Clock,
		arb:     deps.Arbiter,
		timings: deps.Timings,
	}
}

// Run polls for due medications until the context is canceled. Failures
// inside an iteration are logged and the loop resumes on the next tick; an
// in-flight session always runs to completion before the next scan.
func (s *Service) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "alarm-scheduler")

	logger.InfoKV(ctx, "Alarm scheduler started",
		"poll", s.timings.SchedulerPoll.String(),
		"due_window", s.timings.DueWindow.String(),
		"ack_timeout", s.timings.AckTimeout.String())

	ticker := s.clk.NewTicker(s.timings.SchedulerPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Alarm scheduler stopped")
			return nil
		case <-ticker.C():
			if err := s.scan(ctx); err != nil {
				logger.ErrorKV(ctx, "Scan failed", "error", err)
			}
		}
	}
}

// scan detects due medications and handles at most one alarm session.
// Remaining due medications are picked up on subsequent polls.
func (s *Service) scan(ctx context.Context) error {
	due, err := s.dueMedications(ctx)
	if err != nil {
		return err
	}

	if len(due) == 0 {
		return nil
	}

	// Earliest-inserted first; the store lists in insertion order.
	return s.runSession(ctx, &due[0])
}

// dueMedications returns the active medications whose scheduled time of
// day lies inside the acceptance window around now and which have no
// taken entry for the current calendar day. A missed entry does not
// suppress re-detection; only taken does.
func (s *Service) dueMedications(ctx context.Context) ([]med.Medication, error) {
	now := s.clk.Now()

	meds, err := s.store.ListActiveMedications(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active medications: %w", err)
	}

	var due []med.Medication

	for i := range meds {
		m := &meds[i]

		ct, err := med.ParseClockTime(m.Schedule)
		if err != nil {
			if errors.Is(err, med.ErrInvalidSchedule) {
				// Skipped for this scan only, never deactivated.
				logger.WarnKV(ctx, "Skipping medication with invalid schedule",
					"id", m.ID, "name", m.Name, "schedule", m.Schedule)

				continue
			}

			return nil, err
		}

		if !ct.WithinWindow(now, s.timings.DueWindow) {
			continue
		}

		taken, err := s.store.HasIntakeToday(ctx, m.ID, med.OutcomeTaken, now)
		if err != nil {
			return nil, fmt.Errorf("check intake for %q: %w", m.Name, err)
		}

		if taken {
			continue
		}

		due = append(due, *m)
	}

	return due, nil
}
