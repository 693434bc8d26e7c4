package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/aircycle/aircycle/internal/logging"

	"github.com/spf13/cobra"
)

var loopDevice string

var loopCmd = &cobra.Command{
	Use:               "loop",
	Short:             "Interactive loop: show IP, confirm, rotate, repeat",
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := newSession()
		if err != nil {
			return err
		}
		if err := selectDevice(session, loopDevice); err != nil {
			return err
		}
		device, _ := session.Selected()
		fmt.Printf("Device: %s [%s]\n", device.Serial, device.Transport)

		reader := bufio.NewReader(os.Stdin)
		for {
			loc, err := session.CurrentLocation()
			if err != nil {
				return err
			}
			fmt.Printf("\nCurrent IP: %s (%s, %s — %s)\n",
				loc.Query, loc.City, loc.Country, loc.ISP)

			fmt.Print("Rotate IP now? [Y/n/q] ")
			answer, _ := reader.ReadString('\n')
			answer = strings.TrimSpace(strings.ToLower(answer))
			if answer == "q" || answer == "quit" {
				return nil
			}
			if answer != "" && answer != "y" && answer != "yes" {
				continue
			}

			result, err := session.Rotate()
			if err != nil {
				logging.Errorf("rotation failed: %v", err)
				continue
			}
			recordRotation(device.Serial, result)
			reportRotation(result)
		}
	},
}

func init() {
	loopCmd.Flags().StringVarP(&loopDevice, "device", "d", "", "Device serial (default: first connected)")
	rootCmd.AddCommand(loopCmd)
}
