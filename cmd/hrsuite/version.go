package main

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		Short:                 "Print hrsuite version",
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		Run: func(cmd *cobra.Command, _ []string) {
			hash, ts := version()
			fmt.Fprintf(cmd.OutOrStdout(), "hrsuite version: %s from %s\n", hash, ts)
		},
	}
}

// version returns the git hash and commit time the binary was built from.
// Builds from uncommitted code, `go run` and `go test` have no vcs info and report @latest.
func version() (string, string) {
	var (
		hash, ts string
		modified bool
	)

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				hash = setting.Value
			case "vcs.time":
				ts = setting.Value
			case "vcs.modified":
				modified = setting.Value == "true"
			}
		}
	}

	if modified || hash == "" {
		return "@latest", time.Now().UTC().Format(time.RFC3339)
	}

	return hash, ts
}
