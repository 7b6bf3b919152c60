package main

import (
	"github.com/spf13/cobra"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

func exportCmd(c *cli) *cobra.Command {
	var (
		filters filterFlags
		format  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every market matching the filters as JSON or CSV",
		Long: `Fetch every market matching the filters in one request, encode it as JSON
or CSV and deliver the file to the configured sink (local directory or S3).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := domain.ParseExportFormat(format)
			if err != nil {
				return err
			}
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := a.Export(cmd.Context(), domain.ExportRequest{
				Criteria: filters.criteria(),
				Format:   f,
			})
			if err != nil {
				return err
			}
			renderRecord(cmd.OutOrStdout(), rec)
			return nil
		},
	}

	filters.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "export format (json, csv)")
	return cmd
}
