package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/medhealth/medhealthd/internal/domain/med"
	"github.com/medhealth/medhealthd/internal/hardware"
	"github.com/medhealth/medhealthd/internal/logger"
	"github.com/medhealth/medhealthd/internal/service/vitals"
)

// Phase is the lifecycle stage of one alarm session.
type Phase int

const (
	// PhaseIdle is the absence of a session.
	PhaseIdle Phase = iota
	// PhaseAlerting drives the alarm pattern while awaiting a press.
	PhaseAlerting
	// PhaseConfirmed means a validated press arrived in time.
	PhaseConfirmed
	// PhaseTimedOut means the acknowledgment window elapsed.
	PhaseTimedOut
	// PhaseCapturingVitals is the optional measurement window.
	PhaseCapturingVitals
	// PhaseResolved means the intake entry has been written.
	PhaseResolved
)

// String returns the phase name for logs.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAlerting:
		return "alerting"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseTimedOut:
		return "timed_out"
	case PhaseCapturingVitals:
		return "capturing_vitals"
	case PhaseResolved:
		return "resolved"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Alarm pattern cadence: four quick beeps, a short rest, repeat.
const (
	alarmBeepsPerGroup = 4
	alarmBeepOn        = 150 * time.Millisecond
	alarmBeepOff       = 50 * time.Millisecond
	alarmGroupRest     = 200 * time.Millisecond
)

// session is the transient state of one acknowledgment cycle. At most one
// exists at a time; the arbiter token enforces that across loops.
type session struct {
	// medication is the due medication being alarmed.
	medication *med.Medication
	// startedAt is when the session entered alerting.
	startedAt time.Time
	// phase is the current lifecycle stage.
	phase Phase
}

// enter advances the session phase.
func (ses *session) enter(ctx context.Context, p Phase) {
	ses.phase = p
	logger.DebugKV(ctx, "Session phase change",
		"medication", ses.medication.Name, "phase", p.String())
}

// runSession drives one due medication through
// alerting → confirmed/timed out → optional capture → resolved,
// writing exactly one intake entry.
func (s *Service) runSession(ctx context.Context, m *med.Medication) error {
	token, ok := s.arb.Acquire("alarm-session")
	if !ok {
		// Another holder owns the actuators; retry on the next scan.
		logger.WarnKV(ctx, "Actuators busy, deferring alarm", "medication", m.Name)
		return nil
	}
	defer token.Release()

	// A raised alarm is a commitment to the patient: shutdown must not
	// abort it into a premature missed entry. The session runs on a
	// detached context and resolves on its own deadlines; the daemon
	// silences the actuators once the loops have joined.
	ctx = context.WithoutCancel(ctx)

	ses := &session{
		medication: m,
		startedAt:  s.clk.Now(),
	}

	logger.InfoKV(ctx, "Medication due, raising alarm",
		"medication", m.Name, "scheduled", m.Schedule,
		"timeout", s.timings.AckTimeout.String())

	// Whatever happens below, the session's actuators end up off.
	defer s.setAlarmActuators(ctx, false)

	ses.enter(ctx, PhaseAlerting)

	var measurement vitals.Measurement

	if s.alert(ctx) {
		ses.enter(ctx, PhaseConfirmed)
		s.signalConfirmed(ctx)

		ses.enter(ctx, PhaseCapturingVitals)
		measurement = s.offerVitalsCapture(ctx)
	} else {
		ses.enter(ctx, PhaseTimedOut)
		logger.WarnKV(ctx, "Medication not confirmed", "medication", m.Name)
	}

	return s.resolve(ctx, ses, measurement)
}

// alert drives the alarm pattern on a separate goroutine while blocking on
// a validated press, then joins the pattern before reporting the outcome.
func (s *Service) alert(ctx context.Context) bool {
	patternCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		s.alarmPattern(patternCtx)
	}()

	pressed := s.button.WaitForPress(ctx, s.timings.AckTimeout)

	cancel()
	<-done

	return pressed
}

// alarmPattern repeats the beep/indicator cadence until canceled and
// leaves both actuators off.
func (s *Service) alarmPattern(ctx context.Context) {
	defer s.setAlarmActuators(ctx, false)

	for {
		for i := 0; i < alarmBeepsPerGroup; i++ {
			s.setAlarmActuators(ctx, true)

			if s.clk.Sleep(ctx, alarmBeepOn) != nil {
				return
			}

			s.setAlarmActuators(ctx, false)

			if s.clk.Sleep(ctx, alarmBeepOff) != nil {
				return
			}
		}

		if s.clk.Sleep(ctx, alarmGroupRest) != nil {
			return
		}
	}
}

// setAlarmActuators drives the acknowledgment indicator and buzzer
// together. Actuator faults are logged and the session proceeds without
// actuation rather than blocking.
func (s *Service) setAlarmActuators(ctx context.Context, on bool) {
	if err := s.panel.SetIndicator(hardware.IndicatorAck, on); err != nil {
		logger.ErrorKV(ctx, "Acknowledgment indicator fault", "error", err)
	}

	if err := s.panel.SetBuzzer(on); err != nil {
		logger.ErrorKV(ctx, "Buzzer fault", "error", err)
	}
}

// signalConfirmed plays the confirmed signature: the acknowledgment
// indicator held on through a continuous tone, distinct from the pulsed
// alarm pattern.
func (s *Service) signalConfirmed(ctx context.Context) {
	logger.Info(ctx, "Intake confirmed")

	if err := s.panel.SetIndicator(hardware.IndicatorAck, true); err != nil {
		logger.ErrorKV(ctx, "Acknowledgment indicator fault", "error", err)
	}

	if err := s.panel.ContinuousTone(ctx, s.timings.ConfirmTone); err != nil {
		logger.ErrorKV(ctx, "Confirmation tone fault", "error", err)
	}

	if err := s.panel.SetIndicator(hardware.IndicatorAck, false); err != nil {
		logger.ErrorKV(ctx, "Acknowledgment indicator fault", "error", err)
	}
}

// offerVitalsCapture waits for the opt-in press; a second validated press
// inside the window triggers a blocking measurement.
func (s *Service) offerVitalsCapture(ctx context.Context) vitals.Measurement {
	if !s.button.WaitForPress(ctx, s.timings.VitalsOptIn) {
		logger.Info(ctx, "Vitals capture skipped")
		return vitals.Measurement{}
	}

	logger.Info(ctx, "Vitals capture opted in")

	return vitals.Capture(ctx, s.sensors)
}

// resolve writes exactly one intake entry for the session and clears it.
func (s *Service) resolve(ctx context.Context, ses *session, m vitals.Measurement) error {
	now := s.clk.Now()

	entry := &med.IntakeLog{
		MedicationID:   ses.medication.ID,
		MedicationName: ses.medication.Name,
		Scheduled:      ses.medication.Schedule,
		ActualAt:       now,
		CreatedAt:      now,
	}

	if ses.phase == PhaseTimedOut {
		entry.Outcome = med.OutcomeMissed
	} else {
		entry.Outcome = med.OutcomeTaken
		entry.Temperature = m.Temperature
		entry.Pulse = m.Pulse
	}

	if err := s.store.AppendIntakeLog(ctx, entry); err != nil {
		// No entry means the medication stays detectable; the next
		// scan retries the whole session.
		return fmt.Errorf("append intake log: %w", err)
	}

	ses.enter(ctx, PhaseResolved)

	logger.InfoKV(ctx, "Intake logged",
		"medication", ses.medication.Name,
		"outcome", string(entry.Outcome),
		"elapsed", now.Sub(ses.startedAt).String(),
		"has_vitals", entry.Temperature != nil || entry.Pulse != nil)

	return nil
}
