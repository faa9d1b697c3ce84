package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/medhealth/medhealthd/internal/clock"
	"github.com/medhealth/medhealthd/internal/config"
	"github.com/medhealth/medhealthd/internal/hardware"
	"github.com/medhealth/medhealthd/internal/service/selftest"
)

var (
	// selftestCmd groups the hardware check subcommands.
	selftestCmd = &cobra.Command{
		Use:   "selftest",
		Short: "Exercise the attached hardware.",
	}

	// selftestAlarmCmd sweeps the indicators and the buzzer.
	selftestAlarmCmd = &cobra.Command{
		Use:   "alarm",
		Short: "Flash all indicators and beep the buzzer.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newSelftestService()
			if err != nil {
				return err
			}

			return svc.Alarm(cmd.Context())
		},
	}

	// selftestButtonCmd echoes the button onto the actuators.
	selftestButtonCmd = &cobra.Command{
		Use:   "button",
		Short: "Echo button presses onto the indicator and buzzer.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newSelftestService()
			if err != nil {
				return err
			}

			observed, err := svc.Button(cmd.Context(), 30*time.Second)
			if err != nil {
				return err
			}

			if observed {
				cmd.Println("Button press observed.")
			} else {
				cmd.Println("No button press observed.")
			}

			return nil
		},
	}
)

// newSelftestService opens the configured hardware for a one-shot check.
func newSelftestService() (*selftest.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	clk := clock.System{}

	panel, button, err := openSelftestHardware(cfg, clk)
	if err != nil {
		return nil, err
	}

	return selftest.New(panel, button, clk), nil
}

// openSelftestHardware opens the panel and button, honoring simulate mode.
func openSelftestHardware(cfg *config.Config, clk clock.Clock) (*hardware.Panel, *hardware.Button, error) {
	hw := cfg.Hardware

	if hw.Simulate {
		line := &hardware.MemoryOutput{}
		opener := func() (hardware.OutputLine, error) { return line, nil }

		panel := hardware.NewPanel(clk, opener, map[hardware.Indicator]hardware.OutputOpener{
			hardware.IndicatorHeart: opener,
			hardware.IndicatorTemp:  opener,
			hardware.IndicatorAck:   opener,
		})

		return panel, hardware.NewButton(&hardware.MemoryInput{}, clk,
			cfg.Timings.Debounce, cfg.Timings.ButtonPoll), nil
	}

	if err := hardware.Init(); err != nil {
		return nil, nil, err
	}

	panel := hardware.NewPanel(clk, hardware.GPIOOutput(hw.BuzzerPin), map[hardware.Indicator]hardware.OutputOpener{
		hardware.IndicatorHeart: hardware.GPIOOutput(hw.HeartLEDPin),
		hardware.IndicatorTemp:  hardware.GPIOOutput(hw.TempLEDPin),
		hardware.IndicatorAck:   hardware.GPIOOutput(hw.AckLEDPin),
	})

	line, err := hardware.OpenGPIOInput(hw.ButtonPin)
	if err != nil {
		return nil, nil, err
	}

	return panel, hardware.NewButton(line, clk, cfg.Timings.Debounce, cfg.Timings.ButtonPoll), nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	selftestCmd.AddCommand(selftestAlarmCmd, selftestButtonCmd)
	rootCmd.AddCommand(selftestCmd)
}
