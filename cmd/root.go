package cmd

import (
	"fmt"
	"os"

	"github.com/aircycle/aircycle/internal/logging"

	"github.com/spf13/cobra"
)

// Version of aircycle.
const Version = "0.2.0"

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "aircycle",
	Short:   "Rotate an Android device's public IP by cycling airplane mode",
	Version: Version,
	Long: `aircycle drives a tethered Android phone over ADB: it cycles airplane
mode to force the carrier to reattach the device and hand out a fresh public
IP, then verifies connectivity and confirms whether the address changed.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.SetLevel(logging.DebugLevel)
		}
	},
}

// requireDeps returns a PersistentPreRunE that checks for the adb binary.
func requireDeps() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if verbose {
			logging.SetLevel(logging.DebugLevel)
		}
		return checkDeps()
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
