package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/medhealth/medhealthd/internal/service/daemon"
)

var (
	// simulate replaces GPIO lines and sensors with in-memory stand-ins.
	simulate bool

	// runCmd starts the alarm scheduler and the threshold monitor.
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the alarm daemon.",
		Long: `Run the medication alarm daemon in the foreground.

Starts the alarm scheduler and the vitals threshold monitor and blocks
until SIGTERM or SIGINT. SIGUSR1 toggles the threshold monitor at
runtime without restarting the daemon.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return daemon.Run(ctx, &daemon.Options{
				ConfigPath: configPath,
				Simulate:   simulate,
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	runCmd.Flags().BoolVar(&simulate, "simulate", false, "use in-memory hardware instead of GPIO")

	rootCmd.AddCommand(runCmd)
}
