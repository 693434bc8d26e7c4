package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var airplaneDevice string

var airplaneCmd = &cobra.Command{
	Use:               "airplane {on|off|status}",
	Short:             "Toggle or query airplane mode",
	PersistentPreRunE: requireDeps(),
	Args:              cobra.ExactArgs(1),
	ValidArgs:         []string{"on", "off", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := newSession()
		if err != nil {
			return err
		}
		if err := selectDevice(session, airplaneDevice); err != nil {
			return err
		}

		switch args[0] {
		case "on":
			if err := session.SetAirplaneMode(true); err != nil {
				return err
			}
			fmt.Println("Airplane mode enabled.")
		case "off":
			if err := session.SetAirplaneMode(false); err != nil {
				return err
			}
			fmt.Println("Airplane mode disabled.")
		case "status":
			on, err := session.AirplaneMode()
			if err != nil {
				return err
			}
			fmt.Printf("Airplane mode: %v\n", on)
		default:
			return fmt.Errorf("unknown argument %q (want on, off or status)", args[0])
		}
		return nil
	},
}

func init() {
	airplaneCmd.Flags().StringVarP(&airplaneDevice, "device", "d", "", "Device serial (default: first connected)")
	rootCmd.AddCommand(airplaneCmd)
}
