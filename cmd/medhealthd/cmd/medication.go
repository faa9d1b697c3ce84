package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/medhealth/medhealthd/internal/domain/med"
)

var (
	// medicationCmd groups the schedule management subcommands.
	medicationCmd = &cobra.Command{
		Use:   "medication",
		Short: "Manage the medication schedule.",
	}

	// medicationAddCmd inserts a new scheduled medication.
	medicationAddCmd = &cobra.Command{
		Use:   "add <name> <HH:MM>",
		Short: "Add a medication with a daily intake time.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			m, err := db.AddMedication(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			cmd.Printf("Added #%d %s at %s\n", m.ID, m.Name, m.Schedule)

			return nil
		},
	}

	// medicationListCmd prints the schedule.
	medicationListCmd = &cobra.Command{
		Use:   "list",
		Short: "List all medications.",
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

			meds, err := db.ListMedications(cmd.Context())
			if err != nil {
				return err
			}

			if len(meds) == 0 {
				cmd.Println("No medications scheduled.")
				return nil
			}

			now := time.Now()

			for _, m := range meds {
				state := "inactive"

				if m.Active {
					taken, err := db.HasIntakeToday(cmd.Context(), m.ID, med.OutcomeTaken, now)
					if err != nil {
						return err
					}

					state = "pending today"
					if taken {
						state = "taken today"
					}
				}

				cmd.Printf("#%d\t%s\t%s\t%s\n", m.ID, m.Schedule, m.Name, state)
			}

			return nil
		},
	}

	// medicationRemoveCmd deactivates a medication. Log entries keep
	// referencing it, so rows are never deleted.
	medicationRemoveCmd = &cobra.Command{
		Use:   "remove <id>",
		Short: "Deactivate a medication.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parse medication id %q: %w", args[0], err)
			}

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

			if err = db.DeactivateMedication(cmd.Context(), uint(id)); err != nil {
				return err
			}

			cmd.Printf("Deactivated #%d\n", id)

			return nil
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	medicationCmd.AddCommand(medicationAddCmd, medicationListCmd, medicationRemoveCmd)
	rootCmd.AddCommand(medicationCmd)
}
