package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/mitchellh/go-ps"

	"github.com/medhealth/medhealthd/internal/arbiter"
	"github.com/medhealth/medhealthd/internal/clock"
	"github.com/medhealth/medhealthd/internal/config"
	"github.com/medhealth/medhealthd/internal/hardware"
	"github.com/medhealth/medhealthd/internal/logger"
	"github.com/medhealth/medhealthd/internal/repository/store"
	"github.com/medhealth/medhealthd/internal/sensors"
	"github.com/medhealth/medhealthd/internal/service/monitor"
	"github.com/medhealth/medhealthd/internal/service/scheduler"
)

// Options controls the daemon startup.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Simulate forces in-memory hardware regardless of configuration.
	Simulate bool
}

// Run starts the alarm scheduler and the threshold monitor and blocks
// until the context is canceled. All actuators are forced off on every
// exit path; a stuck buzzer on an unattended device must not survive a
// crash of either loop.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "medhealthd")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if lvl, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(lvl)
	}

	if err = ensureSingleInstance(); err != nil {
		return err
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	defer func() {
		_ = db.Close()
	}()

	clk := clock.System{}

	panel, button, reader, err := buildHardware(cfg, clk, opts.Simulate)
	if err != nil {
		return err
	}

	// Known-quiet starting state, and a wiring sanity check: a pull-up
	// input reading pressed with nobody touching it points at a short.
	if err = panel.AllOff(); err != nil {
		logger.WarnKV(ctx, "Could not silence actuators at startup", "error", err)
	}

	if button.IsPressed() {
		logger.Warn(ctx, "Button reads pressed at startup, check the wiring")
	}

	defer func() {
		if err := panel.AllOff(); err != nil {
			logger.ErrorKV(ctx, "Could not silence actuators at shutdown", "error", err)
		}
	}()

	arb := arbiter.New()

	sched := scheduler.New(scheduler.Deps{
		Store:   db,
		Panel:   panel,
		Button:  button,
		Sensors: reader,
		Clock:   clk,
		Arbiter: arb,
		Timings: cfg.Timings,
	})

	mon := monitor.New(monitor.Deps{
		Store:      db,
		Panel:      panel,
		Sensors:    reader,
		Clock:      clk,
		Arbiter:    arb,
		Thresholds: cfg.Thresholds,
		Timings:    cfg.Timings,
		Enabled:    cfg.Monitoring.Enabled,
	})

	logger.InfoKV(ctx, "Daemon started",
		"database", cfg.DatabasePath,
		"simulate", opts.Simulate || cfg.Hardware.Simulate,
		"monitoring", cfg.Monitoring.Enabled)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		_ = sched.Run(runCtx)
	}()

	wg.Add(1)

	go func() {
		defer wg.Done()
		_ = mon.Run(runCtx)
	}()

	wg.Add(1)

	go func() {
		defer wg.Done()
		watchMonitorToggle(runCtx, mon)
	}()

	<-ctx.Done()
	logger.Info(ctx, "Shutdown signal received")

	cancel()
	wg.Wait()

	logger.Info(ctx, "Daemon stopped")

	return nil
}

// watchMonitorToggle flips the threshold monitor on SIGUSR1 until the
// context ends.
func watchMonitorToggle(ctx context.Context, mon *monitor.Service) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGUSR1)

	defer signal.Stop(sig)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			logger.InfoKV(ctx, "Monitoring toggled", "enabled", mon.Toggle())
		}
	}
}

// buildHardware opens the actuator panel, the acknowledgment button and
// the sensor readers, either on real GPIO lines or in memory.
func buildHardware(cfg *config.Config, clk clock.Clock, forceSimulate bool) (
	*hardware.Panel, *hardware.Button, sensors.Reader, error,
) {
	hw := cfg.Hardware

	if forceSimulate || hw.Simulate {
		panel := hardware.NewPanel(clk, memoryOpener(), map[hardware.Indicator]hardware.OutputOpener{
			hardware.IndicatorHeart: memoryOpener(),
			hardware.IndicatorTemp:  memoryOpener(),
			hardware.IndicatorAck:   memoryOpener(),
		})
		button := hardware.NewButton(&hardware.MemoryInput{}, clk, cfg.Timings.Debounce, cfg.Timings.ButtonPoll)

		return panel, button, sensors.NewSimulated(), nil
	}

	if err := hardware.Init(); err != nil {
		return nil, nil, nil, err
	}

	panel := hardware.NewPanel(clk, hardware.GPIOOutput(hw.BuzzerPin), map[hardware.Indicator]hardware.OutputOpener{
		hardware.IndicatorHeart: hardware.GPIOOutput(hw.HeartLEDPin),
		hardware.IndicatorTemp:  hardware.GPIOOutput(hw.TempLEDPin),
		hardware.IndicatorAck:   hardware.GPIOOutput(hw.AckLEDPin),
	})

	line, err := hardware.OpenGPIOInput(hw.ButtonPin)
	if err != nil {
		return nil, nil, nil, err
	}

	button := hardware.NewButton(line, clk, cfg.Timings.Debounce, cfg.Timings.ButtonPoll)

	return panel, button, sensors.NewDevice(hw.W1Dir, hw.PulseSensorPath), nil
}

// memoryOpener returns an opener for a fresh in-memory line.
func memoryOpener() hardware.OutputOpener {
	line := &hardware.MemoryOutput{}

	return func() (hardware.OutputLine, error) { return line, nil }
}

// ensureSingleInstance refuses to start when another process with the
// same executable name is already running. Two daemons would fight over
// the GPIO lines and double-log every intake.
func ensureSingleInstance() error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	name := filepath.Base(executable)

	processes, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	thisPID := os.Getpid()

	for _, process := range processes {
		if process.Pid() != thisPID && process.Executable() == name {
			return fmt.Errorf("another %s instance is already running (pid %d)", name, process.Pid())
		}
	}

	return nil
}
