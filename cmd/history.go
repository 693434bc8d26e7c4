package cmd

import (
	"fmt"

	"github.com/aircycle/aircycle/internal/config"
	"github.com/aircycle/aircycle/internal/history"

	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historySerial string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent IP rotations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := history.Open(config.ConfigDir())
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer db.Close()

		if historySerial != "" {
			stats, err := db.Stats(historySerial)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d rotations, %d changed the IP\n",
				historySerial, stats.Attempts, stats.Changed)
			return nil
		}

		rotations, err := db.Recent(historyLimit)
		if err != nil {
			return err
		}
		if len(rotations) == 0 {
			fmt.Println("No rotations recorded yet.")
			return nil
		}
		for _, r := range rotations {
			outcome := "unchanged"
			if r.Changed {
				outcome = "changed"
			}
			fmt.Printf("%s  %-20s %s -> %s  [%s]\n",
				r.CreatedAt.Format("2006-01-02 15:04:05"),
				r.DeviceSerial, r.PreviousIP, r.NewIP, outcome)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of records to show")
	historyCmd.Flags().StringVarP(&historySerial, "stats", "s", "", "Show per-device stats for a serial")
	rootCmd.AddCommand(historyCmd)
}
