package main

import (
	"github.com/spf13/cobra"

	mongodb "github.com/dealspot/dealspot/internal/infrastructure/db/mongo"
)

func newIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.close()

			if err := mongodb.EnsureIndexes(cmd.Context(), a.db); err != nil {
				return err
			}
			a.log.Info().Msg("indexes ensured")
			return nil
		},
	}
}
