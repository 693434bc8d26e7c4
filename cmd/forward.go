package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var forwardDevice string

var forwardCmd = &cobra.Command{
	Use:               "forward <local-port> <remote-port>",
	Short:             "Forward a host TCP port to the device",
	PersistentPreRunE: requireDeps(),
	Long: `Forwards tcp:<local-port> on this machine to tcp:<remote-port> on the
device. The forward stays in place until the adb server restarts or it is
removed with 'adb forward --remove'.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		localPort, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("local port %q: %w", args[0], err)
		}
		remotePort, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("remote port %q: %w", args[1], err)
		}

		session, _, err := newSession()
		if err != nil {
			return err
		}
		if err := selectDevice(session, forwardDevice); err != nil {
			return err
		}
		if err := session.Forward(localPort, remotePort); err != nil {
			return err
		}
		fmt.Printf("Forwarding tcp:%d -> tcp:%d\n", localPort, remotePort)
		return nil
	},
}

func init() {
	forwardCmd.Flags().StringVarP(&forwardDevice, "device", "d", "", "Device serial (default: first connected)")
	rootCmd.AddCommand(forwardCmd)
}
