package main

import (
	"github.com/architeacher/records/services/svc-records/internal/runtime"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	Run: func(cmd *cobra.Command, args []string) {
		runtime.New().Run()
	},
}
