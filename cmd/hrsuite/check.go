package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color" //nolint:misspell
	"github.com/spf13/cobra"

	"github.com/go-arrower/hrsuite/contexts/attendance"
)

var errNotCompliant = errors.New("not compliant")

func newCheckCmd() *cobra.Command {
	var (
		zonesFile string
		lat, lon  float64
		accuracy  float64
		ssid      string
		bssid     string
		useWiFi   bool
	)

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check a position against a zone file",
		Long: `Check if a position or WiFi network is allowed by the zones and networks of a YAML file.
The exit code is 0 only for a compliant position.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			zf, err := attendance.LoadZoneFile(zonesFile)
			if err != nil {
				return err //nolint:wrapcheck // already wrapped
			}

			pos := attendance.Position{Accuracy: accuracy, SSID: ssid, BSSID: bssid}
			if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
				pos.Latitude, pos.Longitude = &lat, &lon
			}

			res, err := attendance.CheckOffline(cmd.Context(), nil, zf, pos, useWiFi)
			if err != nil {
				return err //nolint:wrapcheck // already wrapped
			}

			printResult(cmd, res)

			if !res.Compliant {
				return fmt.Errorf("%w: %s", errNotCompliant, res.ErrorKind)
			}

			return nil
		},
	}

	checkCmd.Flags().StringVarP(&zonesFile, "zones", "z", "zones.yaml", "YAML file with the allowed zones and networks")
	checkCmd.Flags().Float64Var(&lat, "lat", 0, "latitude of the position")
	checkCmd.Flags().Float64Var(&lon, "lon", 0, "longitude of the position")
	checkCmd.Flags().Float64Var(&accuracy, "accuracy", 0, "accuracy of the position in meters")
	checkCmd.Flags().StringVar(&ssid, "ssid", "", "SSID of the connected WiFi network")
	checkCmd.Flags().StringVar(&bssid, "bssid", "", "BSSID of the connected WiFi network")
	checkCmd.Flags().BoolVar(&useWiFi, "wifi", true, "fall back to the WiFi network, if the position is not conclusive")

	return checkCmd
}

func printResult(cmd *cobra.Command, res attendance.CheckResult) {
	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen, color.Bold).FprintfFunc()
	red := color.New(color.FgRed, color.Bold).FprintfFunc()

	switch {
	case res.Compliant && res.Network != "":
		green(out, "compliant: connected to %s\n", res.Network)
	case res.Compliant:
		green(out, "compliant: inside %s\n", res.Zone)
	default:
		red(out, "not compliant: %s\n", res.ErrorKind)
	}

	if res.Nearest != "" {
		fmt.Fprintf(out, "nearest zone: %s (%.0f m)\n", res.Nearest, res.NearestDistance)
	}
}
