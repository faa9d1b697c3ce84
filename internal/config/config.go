package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the device settings shared by all medhealthd subcommands.
type Config struct {
	// DatabasePath is the SQLite file storing medications and logs.
	DatabasePath string `yaml:"database_path"`
	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// Hardware describes the GPIO lines and sensor devices.
	Hardware Hardware `yaml:"hardware"`
	// Thresholds holds the acceptable vital sign ranges.
	Thresholds Thresholds `yaml:"thresholds"`
	// Timings holds every temporal tunable of the alarm engine.
	Timings Timings `yaml:"timings"`
	// Monitoring controls the threshold monitor loop.
	Monitoring Monitoring `yaml:"monitoring"`
}

// Hardware describes the physical I/O the daemon drives.
type Hardware struct {
	// Simulate replaces GPIO lines and sensors with in-memory stand-ins.
	Simulate bool `yaml:"simulate"`
	// BuzzerPin is the GPIO line name driving the buzzer.
	BuzzerPin string `yaml:"buzzer_pin"`
	// HeartLEDPin is the indicator next to the pulse sensor.
	HeartLEDPin string `yaml:"heart_led_pin"`
	// TempLEDPin is the indicator next to the thermometer.
	TempLEDPin string `yaml:"temp_led_pin"`
	// AckLEDPin is the indicator next to the acknowledgment button.
	AckLEDPin string `yaml:"ack_led_pin"`
	// ButtonPin is the acknowledgment input line. The button pulls the
	// line low when pressed; the pull-up keeps it high otherwise.
	ButtonPin string `yaml:"button_pin"`
	// W1Dir is the 1-wire sysfs directory scanned for DS18B20 devices.
	W1Dir string `yaml:"w1_dir"`
	// PulseSensorPath is the sysfs attribute exporting the pulse in bpm.
	PulseSensorPath string `yaml:"pulse_sensor_path"`
}

// Thresholds holds the acceptable ranges checked by the threshold monitor.
type Thresholds struct {
	// TempMin is the lower bound of the acceptable temperature, °C.
	TempMin float64 `yaml:"temp_min"`
	// TempMax is the upper bound of the acceptable temperature, °C.
	TempMax float64 `yaml:"temp_max"`
	// PulseMin is the lower bound of the acceptable pulse, bpm.
	PulseMin int `yaml:"pulse_min"`
	// PulseMax is the upper bound of the acceptable pulse, bpm.
	PulseMax int `yaml:"pulse_max"`
}

// TempOK reports whether the temperature falls inside the acceptable range.
func (t Thresholds) TempOK(v float64) bool {
	return v >= t.TempMin && v <= t.TempMax
}

// PulseOK reports whether the pulse falls inside the acceptable range.
func (t Thresholds) PulseOK(v int) bool {
	return v >= t.PulseMin && v <= t.PulseMax
}

// Timings holds the temporal tunables of the alarm engine.
type Timings struct {
	// DueWindow is the tolerance around a scheduled time-of-day within
	// which a medication counts as due (applied on both sides).
	DueWindow time.Duration `yaml:"due_window"`
	// SchedulerPoll is the alarm scheduler scan interval.
	SchedulerPoll time.Duration `yaml:"scheduler_poll"`
	// MonitorPoll is the threshold monitor sampling interval.
	MonitorPoll time.Duration `yaml:"monitor_poll"`
	// AckTimeout is how long an alarm waits for acknowledgment.
	AckTimeout time.Duration `yaml:"ack_timeout"`
	// VitalsOptIn is the window for opting into a vitals capture after
	// a confirmed intake.
	VitalsOptIn time.Duration `yaml:"vitals_opt_in"`
	// Debounce is the minimum continuous assertion for a valid press.
	Debounce time.Duration `yaml:"debounce"`
	// ButtonPoll is the sampling granularity of the debouncer.
	ButtonPoll time.Duration `yaml:"button_poll"`
	// AlertPattern is how long a threshold alert drives its pattern.
	AlertPattern time.Duration `yaml:"alert_pattern"`
	// ConfirmTone is the length of the continuous confirmation tone.
	ConfirmTone time.Duration `yaml:"confirm_tone"`
}

// Monitoring controls the threshold monitor loop.
type Monitoring struct {
	// Enabled starts the monitor active. SIGUSR1 toggles it at runtime;
	// the alarm scheduler always runs regardless.
	Enabled bool `yaml:"enabled"`
}

// Defaults mirror the original device firmware.
const (
	// DefaultConfigFilename is the default filename for device settings.
	DefaultConfigFilename = "medhealthd.yaml"

	// DefaultDatabaseFilename is the default SQLite database filename.
	DefaultDatabaseFilename = "medhealth.db"

	// DefaultDueWindow is the acceptance window around a scheduled time.
	DefaultDueWindow = 30 * time.Second

	// DefaultSchedulerPoll is the alarm scheduler scan interval.
	DefaultSchedulerPoll = 5 * time.Second

	// DefaultMonitorPoll is the threshold monitor sampling interval.
	DefaultMonitorPoll = 10 * time.Second

	// DefaultAckTimeout is the acknowledgment window of an alarm.
	DefaultAckTimeout = 60 * time.Second

	// DefaultVitalsOptIn is the vitals opt-in window after confirmation.
	DefaultVitalsOptIn = 5 * time.Second

	// DefaultDebounce is the minimum press length accepted as valid.
	DefaultDebounce = 50 * time.Millisecond

	// DefaultButtonPoll is the debouncer sampling interval.
	DefaultButtonPoll = 20 * time.Millisecond

	// DefaultAlertPattern is the duration of a threshold alert pattern.
	DefaultAlertPattern = 5 * time.Second

	// DefaultConfirmTone is the duration of the confirmation tone.
	DefaultConfirmTone = 2 * time.Second

	// DefaultFilePermissions is the permission mode for written files.
	DefaultFilePermissions = 0o600
)

// Default GPIO line names (BCM numbering as registered by periph).
const (
	DefaultBuzzerPin   = "GPIO17"
	DefaultHeartLEDPin = "GPIO22"
	DefaultTempLEDPin  = "GPIO23"
	DefaultAckLEDPin   = "GPIO24"
	DefaultButtonPin   = "GPIO27"
)

// DefaultW1Dir is where the kernel exposes enumerated 1-wire slaves.
const DefaultW1Dir = "/sys/bus/w1/devices"

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errTempRange is returned when the temperature range is inverted.
	errTempRange = errors.New("temperature range: min must not exceed max")
	// errPulseRange is returned when the pulse range is inverted.
	errPulseRange = errors.New("pulse range: min must not exceed max")
)

// Load reads configuration from the provided path and validates it.
// A missing file yields the defaults so the daemon can run unconfigured.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := new(Config)
			if err = Validate(cfg); err != nil {
				return nil, err
			}

			return cfg, nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults for unset fields and rejects inconsistent ranges.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = DefaultDatabaseFilename
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	applyHardwareDefaults(&cfg.Hardware)
	applyTimingDefaults(&cfg.Timings)

	t := &cfg.Thresholds
	if t.TempMin == 0 && t.TempMax == 0 {
		t.TempMin, t.TempMax = 18.0, 30.0
	}

	if t.PulseMin == 0 && t.PulseMax == 0 {
		t.PulseMin, t.PulseMax = 60, 120
	}

	if t.TempMin > t.TempMax {
		return errTempRange
	}

	if t.PulseMin > t.PulseMax {
		return errPulseRange
	}

	return nil
}

// applyHardwareDefaults fills unset GPIO line names and sensor paths.
func applyHardwareDefaults(hw *Hardware) {
	if hw.BuzzerPin == "" {
		hw.BuzzerPin = DefaultBuzzerPin
	}

	if hw.HeartLEDPin == "" {
		hw.HeartLEDPin = DefaultHeartLEDPin
	}

	if hw.TempLEDPin == "" {
		hw.TempLEDPin = DefaultTempLEDPin
	}

	if hw.AckLEDPin == "" {
		hw.AckLEDPin = DefaultAckLEDPin
	}

	if hw.ButtonPin == "" {
		hw.ButtonPin = DefaultButtonPin
	}

	if hw.W1Dir == "" {
		hw.W1Dir = DefaultW1Dir
	}
}

// applyTimingDefaults fills unset durations with the firmware defaults.
//
//nolint:cyclop // One branch per tunable.
func applyTimingDefaults(t *Timings) {
	if t.DueWindow <= 0 {
		t.DueWindow = DefaultDueWindow
	}

	if t.SchedulerPoll <= 0 {
		t.SchedulerPoll = DefaultSchedulerPoll
	}

	if t.MonitorPoll <= 0 {
		t.MonitorPoll = DefaultMonitorPoll
	}

	if t.AckTimeout <= 0 {
		t.AckTimeout = DefaultAckTimeout
	}

	if t.VitalsOptIn <= 0 {
		t.VitalsOptIn = DefaultVitalsOptIn
	}

	if t.Debounce <= 0 {
		t.Debounce = DefaultDebounce
	}

	if t.ButtonPoll <= 0 {
		t.ButtonPoll = DefaultButtonPoll
	}

	if t.AlertPattern <= 0 {
		t.AlertPattern = DefaultAlertPattern
	}

	if t.ConfirmTone <= 0 {
		t.ConfirmTone = DefaultConfirmTone
	}
}
