package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	ipDevice   string
	ipLocation bool
)

var ipCmd = &cobra.Command{
	Use:               "ip",
	Short:             "Print the device's current external IP",
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := newSession()
		if err != nil {
			return err
		}
		if err := selectDevice(session, ipDevice); err != nil {
			return err
		}

		if !ipLocation {
			ip, err := session.CurrentIP()
			if err != nil {
				return err
			}
			fmt.Println(ip)
			return nil
		}

		loc, err := session.CurrentLocation()
		if err != nil {
			return err
		}
		fmt.Printf("IP:       %s\n", loc.Query)
		fmt.Printf("Country:  %s (%s)\n", loc.Country, loc.CountryCode)
		fmt.Printf("Region:   %s (%s)\n", loc.RegionName, loc.Region)
		fmt.Printf("City:     %s %s\n", loc.City, loc.Zip)
		fmt.Printf("Coords:   %.4f, %.4f\n", loc.Lat, loc.Lon)
		fmt.Printf("Timezone: %s\n", loc.Timezone)
		fmt.Printf("ISP:      %s\n", loc.ISP)
		if loc.Org != "" {
			fmt.Printf("Org:      %s\n", loc.Org)
		}
		return nil
	},
}

func init() {
	ipCmd.Flags().StringVarP(&ipDevice, "device", "d", "", "Device serial (default: first connected)")
	ipCmd.Flags().BoolVarP(&ipLocation, "location", "l", false, "Print the full geo record")
	rootCmd.AddCommand(ipCmd)
}
