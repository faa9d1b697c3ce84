package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/medhealth/medhealthd/internal/domain/med"
)

var (
	// historyLimit caps the number of printed entries per log.
	historyLimit int

	// historyCmd prints the recorded intake history.
	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Print the intake history, newest first.",
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

			entries, err := db.RecentIntakeLogs(cmd.Context(), historyLimit)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				cmd.Println("No intake entries recorded.")
				return nil
			}

			var taken, missed, withVitals int

			for _, e := range entries {
				line := e.ActualAt.Format(time.RFC3339) + "\t" + e.MedicationName +
					" (" + e.Scheduled + ")\t" + string(e.Outcome)

				if e.Outcome == med.OutcomeTaken {
					taken++
				} else {
					missed++
				}

				if e.Temperature != nil {
					line += "\t" + formatTemp(*e.Temperature)
				}

				if e.Pulse != nil {
					line += "\t" + formatPulse(*e.Pulse)
				}

				if e.Temperature != nil || e.Pulse != nil {
					withVitals++
				}

				cmd.Println(line)
			}

			cmd.Printf("%d taken, %d missed, %d with vitals\n", taken, missed, withVitals)

			return nil
		},
	}

	// vitalsHistoryCmd prints the recorded vitals measurements.
	vitalsHistoryCmd = &cobra.Command{
		Use:   "vitals",
		Short: "Print the vitals history, newest first.",
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

			entries, err := db.RecentVitalsLogs(cmd.Context(), historyLimit)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				cmd.Println("No vitals entries recorded.")
				return nil
			}

			for _, e := range entries {
				line := e.CreatedAt.Format(time.RFC3339)

				if e.Temperature != nil {
					line += "\t" + formatTemp(*e.Temperature)
				} else {
					line += "\t-"
				}

				if e.Pulse != nil {
					line += "\t" + formatPulse(*e.Pulse)
				} else {
					line += "\t-"
				}

				cmd.Println(line + "\t" + string(e.Status))
			}

			return nil
		},
	}
)

// formatTemp renders a temperature for the history listings.
func formatTemp(v float64) string {
	return fmt.Sprintf("%.1f °C", v)
}

// formatPulse renders a pulse for the history listings.
func formatPulse(v int) string {
	return fmt.Sprintf("%d bpm", v)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to print")
	historyCmd.AddCommand(vitalsHistoryCmd)
	rootCmd.AddCommand(historyCmd)
}
