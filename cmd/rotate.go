package cmd

import (
	"github.com/aircycle/aircycle/internal/config"
	"github.com/aircycle/aircycle/internal/history"
	"github.com/aircycle/aircycle/internal/logging"
	"github.com/aircycle/aircycle/internal/rotator"

	"github.com/spf13/cobra"
)

var rotateDevice string

var rotateCmd = &cobra.Command{
	Use:               "rotate",
	Short:             "Cycle airplane mode to get a fresh public IP",
	PersistentPreRunE: requireDeps(),
	Long: `Checks connectivity, records the current external IP, toggles airplane
mode off and on with settle delays, then verifies connectivity again and
reports whether the carrier assigned a new address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := newSession()
		if err != nil {
			return err
		}
		if err := selectDevice(session, rotateDevice); err != nil {
			return err
		}
		device, _ := session.Selected()

		logging.Infof("rotating IP on %s", device.Serial)
		result, err := session.Rotate()
		if err != nil {
			return err
		}
		recordRotation(device.Serial, result)
		reportRotation(result)
		return nil
	},
}

// recordRotation appends the attempt to the history database. History is
// best effort: a failure to record never fails the rotation.
func recordRotation(serial string, result rotator.Result) {
	db, err := history.Open(config.ConfigDir())
	if err != nil {
		logging.Warnf("history unavailable: %v", err)
		return
	}
	defer db.Close()
	if err := db.Record(serial, result.PreviousIP, result.CurrentIP, result.Changed); err != nil {
		logging.Warnf("record rotation: %v", err)
	}
}

func reportRotation(result rotator.Result) {
	if result.Changed {
		logging.Infof("IP changed: %s -> %s", result.PreviousIP, result.CurrentIP)
	} else {
		logging.Warnf("IP unchanged (%s): the carrier reassigned the same address", result.CurrentIP)
	}
}

func init() {
	rotateCmd.Flags().StringVarP(&rotateDevice, "device", "d", "", "Device serial (default: first connected)")
	rootCmd.AddCommand(rotateCmd)
}
