package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/mrops-br/warehouse-registry/internal/infrastructure/config"
	"github.com/mrops-br/warehouse-registry/internal/infrastructure/telemetry"
	"github.com/mrops-br/warehouse-registry/internal/seed"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		warehouseName string
		seedPath      string
		verbose       bool
	)

	cmd := &cobra.Command{
		Use:           "warehouse-demo",
		Short:         "Walk through the warehouse registry operations",
		Long:          "warehouse-demo registers two warehouses, stocks one with sample products and prints the result of every query.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := seed.Default()
			if seedPath != "" {
				f, err := os.Open(seedPath)
				if err != nil {
					return err
				}
				defer f.Close()
				if catalog, err = seed.Load(f); err != nil {
					return err
				}
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := telemetry.NewLogger(&config.OTLPConfig{
				ServiceName: "warehouse-demo",
				Environment: "cli",
				LogLevel:    level,
			}, cmd.ErrOrStderr())

			d := &demo{
				out:       cmd.OutOrStdout(),
				logger:    logger,
				catalog:   catalog,
				warehouse: warehouseName,
				now:       time.Now,
			}
			return d.run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&warehouseName, "warehouse", "DemoWarehouse", "name of the warehouse to stock")
	cmd.Flags().StringVar(&seedPath, "seed", "", "YAML product catalog (built-in samples when empty)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log registry activity to stderr")
	return cmd
}
