package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:               "devices",
	Short:             "List connected Android devices",
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := newSession()
		if err != nil {
			return err
		}
		devices, err := session.Devices()
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Println("No devices connected.")
			return nil
		}
		for _, d := range devices {
			fmt.Printf("%-24s [%s]\n", d.Serial, d.Transport)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
