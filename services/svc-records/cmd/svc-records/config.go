package main

import (
	"fmt"

	"github.com/architeacher/records/services/svc-records/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration without credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Init()
		if err != nil {
			return err
		}

		return config.NewLoader(cfg, nil).DumpConfig(cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Init()
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", cfg.App.ServiceName, cfg.App.ServiceVersion, cfg.App.CommitSHA)

		return err
	},
}
