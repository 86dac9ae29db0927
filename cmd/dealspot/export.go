package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dealspot/dealspot/internal/core/ports"
	"github.com/dealspot/dealspot/pkg/logger"
)

func newExportCmd() *cobra.Command {
	var (
		req ports.ExportRequest
		out string
	)

	cmd := &cobra.Command{
		Use:       "export <entity>",
		Short:     "Write a full export of an entity to a file",
		Long:      "Runs the same export as the dashboard endpoint, without the streaming threshold.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{ports.ExportDeals, ports.ExportUsers, ports.ExportSubscribers, ports.ExportStores, ports.ExportComments},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			req.Entity = args[0]

			a, err := bootstrap(ctx, false)
			if err != nil {
				return err
			}
			defer a.close()

			job, err := a.repositories().exportService(logger.Component("export")).Prepare(ctx, req)
			if err != nil {
				return err
			}
			file, err := job.Direct(ctx)
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = file.Filename
			} else if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
				path = filepath.Join(path, file.Filename)
			}
			if err := os.WriteFile(path, file.Data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			a.log.Info().Str("entity", req.Entity).Int("rows", file.Rows).Str("path", path).Msg("export written")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Format, "format", "xlsx", "output format: xlsx or txt")
	f.StringVar(&req.SortField, "sort-field", "", "field to sort by")
	f.StringVar(&req.SortOrder, "sort-order", "asc", "asc or desc")
	f.StringToStringVar(&req.Filters, "filter", nil, "entity filters as key=value pairs")
	f.StringVarP(&out, "out", "o", "", "output file or directory (defaults to the generated file name)")
	return cmd
}
