package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hrsuite",
		Short: "hrsuite checks that employees clock in and out from an allowed place.",
		Long: `Serve the attendance api or check a position against a zone file,
without any server or database.`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
}

// newHRSuiteCLI initialises the complete cli with its commands and returns the root command.
func newHRSuiteCLI(osSignal <-chan os.Signal) *cobra.Command {
	rootCmd := newRootCmd()
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd(osSignal))
	rootCmd.AddCommand(newCheckCmd())

	return rootCmd
}

// newInterruptSignalChannel returns a channel listening for the os.Signals serve shuts down on.
func newInterruptSignalChannel() chan os.Signal {
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)

	return osSignal
}

func execute() {
	if err := newHRSuiteCLI(newInterruptSignalChannel()).Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
