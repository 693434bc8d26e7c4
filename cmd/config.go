package cmd

import (
	"fmt"

	"github.com/aircycle/aircycle/internal/adb"
	"github.com/aircycle/aircycle/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage aircycle configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		fmt.Printf("Config file: %s\n\n", config.ConfigPath())
		adbPath := cfg.ADBPath
		if adbPath == "" {
			adbPath = "(auto-discover)"
		}
		fmt.Printf("ADB path: %s\n", adbPath)
		fmt.Printf("Ping: %d probes to %s, %ds deadline\n",
			cfg.PingCount, cfg.PingHost, cfg.PingDeadlineSeconds)
		fmt.Printf("Delays: %ds settle, %ds reconnect\n",
			cfg.SettleDelaySeconds, cfg.ReconnectDelaySeconds)
		fmt.Printf("IP lookup: %s\n", cfg.LookupURL)
		if cfg.LogFile != "" {
			fmt.Printf("Log file: %s\n", cfg.LogFile)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("Config created at %s\n", config.ConfigPath())
		return nil
	},
}

var configSetADBCmd = &cobra.Command{
	Use:   "set-adb <path>",
	Short: "Pin the adb executable path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		// Reject paths that would fail at session construction.
		if _, err := adb.New(path); err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.ADBPath = path
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("Set adb path: %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetADBCmd)
	rootCmd.AddCommand(configCmd)
}
