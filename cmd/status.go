package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusDevice string

var statusCmd = &cobra.Command{
	Use:               "status",
	Short:             "Show airplane mode, connectivity and external IP",
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := newSession()
		if err != nil {
			return err
		}
		if err := selectDevice(session, statusDevice); err != nil {
			return err
		}
		device, _ := session.Selected()
		fmt.Printf("Device: %s [%s]\n", device.Serial, device.Transport)

		airplane, err := session.AirplaneMode()
		if err != nil {
			return err
		}
		fmt.Printf("Airplane mode: %v\n", airplane)

		ok, err := session.Ping()
		if err != nil {
			return err
		}
		fmt.Printf("Connectivity: %v\n", ok)

		if ok {
			ip, err := session.CurrentIP()
			if err != nil {
				return err
			}
			fmt.Printf("External IP: %s\n", ip)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVarP(&statusDevice, "device", "d", "", "Device serial (default: first connected)")
	rootCmd.AddCommand(statusCmd)
}
