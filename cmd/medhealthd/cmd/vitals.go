package cmd

import (
	"github.com/spf13/cobra"

	"github.com/medhealth/medhealthd/internal/clock"
	"github.com/medhealth/medhealthd/internal/sensors"
	"github.com/medhealth/medhealthd/internal/service/vitals"
)

// vitalsCmd takes one measurement and records it.
var vitalsCmd = &cobra.Command{
	Use:   "vitals",
	Short: "Measure and record temperature and pulse once.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := openStore(cfg)
		if err != nil {
			return err
		}

		defer func() {
			_ = db.Close()
		}()

		var reader sensors.Reader
		if cfg.Hardware.Simulate {
			reader = sensors.NewSimulated()
		} else {
			reader = sensors.NewDevice(cfg.Hardware.W1Dir, cfg.Hardware.PulseSensorPath)
		}

		ctx := cmd.Context()

		m := vitals.Capture(ctx, reader)

		entry, err := vitals.Record(ctx, db, clock.System{}, m, cfg.Thresholds)
		if err != nil {
			return err
		}

		if entry.Temperature != nil {
			cmd.Printf("Temperature: %.1f °C\n", *entry.Temperature)
		} else {
			cmd.Println("Temperature: unavailable")
		}

		if entry.Pulse != nil {
			cmd.Printf("Pulse: %d bpm\n", *entry.Pulse)
		} else {
			cmd.Println("Pulse: unavailable")
		}

		cmd.Printf("Status: %s\n", entry.Status)

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(vitalsCmd)
}
