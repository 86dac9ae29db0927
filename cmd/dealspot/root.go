package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "dealspot",
		Short:         "DealSpot deals marketplace backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is fine; the environment may already be set.
			if envFile != "" {
				_ = godotenv.Load(envFile)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before reading configuration")

	root.AddCommand(newServeCmd(), newExportCmd(), newIndexesCmd())
	return root
}
