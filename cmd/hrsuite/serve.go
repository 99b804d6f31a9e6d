package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color" //nolint:misspell
	"github.com/spf13/cobra"

	"github.com/go-arrower/hrsuite"
	attendance "github.com/go-arrower/hrsuite/contexts/attendance/init"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(osSignal <-chan os.Signal) *cobra.Command {
	var (
		configFile string
		inMemory   bool
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the attendance api",
		Long: `Serve the attendance api until an interrupt signal is received.
The configuration is read from the config file and HRSUITE_ environment variables.`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig(configFile)
			if err != nil {
				return err
			}

			if inMemory {
				conf.Postgres.Host = ""
			}

			return serve(cmd, conf, osSignal)
		},
	}

	serveCmd.Flags().StringVarP(&configFile, "config", "c", "", "path to a config file")
	serveCmd.Flags().BoolVar(&inMemory, "in-memory", false, "keep all data in memory instead of postgres")

	return serveCmd
}

func loadConfig(path string) (*hrsuite.Config, error) {
	vip := hrsuite.DefaultViper()

	if path != "" {
		vip.SetConfigFile(path)

		if err := vip.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
	}

	conf := &hrsuite.Config{}
	if err := vip.Unmarshal(conf); err != nil {
		return nil, err //nolint:wrapcheck // already wrapped
	}

	return conf, nil
}

func serve(cmd *cobra.Command, conf *hrsuite.Config, osSignal <-chan os.Signal) error {
	blue := color.New(color.FgBlue, color.Bold).FprintfFunc()
	ctx := context.Background()

	di, err := hrsuite.InitialiseDefaultDependencies(ctx, conf)
	if err != nil {
		return fmt.Errorf("could not initialise dependencies: %w", err)
	}

	attendanceContext, err := attendance.NewAttendanceContext(di)
	if err != nil {
		return err //nolint:wrapcheck // already wrapped
	}

	if err = di.Start(ctx); err != nil {
		return fmt.Errorf("could not start: %w", err)
	}

	blue(cmd.OutOrStdout(), "serving on port %d\n", conf.HTTP.Port)

	stopped := make(chan error, 1)

	go func() {
		stopped <- di.Wait()
	}()

	var serveErr error

	select {
	case <-osSignal:
	case serveErr = <-stopped:
	}

	blue(cmd.OutOrStdout(), "shutting down\n")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	return errors.Join(serveErr, di.Shutdown(shutdownCtx), attendanceContext.Shutdown(shutdownCtx))
}
