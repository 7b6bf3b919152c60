package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func historyCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent exports from the audit log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			recs, err := a.Deps().Delivery.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintln(out, dimStyle.Render("No exports recorded."))
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			defer tw.Flush()
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				headerStyle.Render("Created"),
				headerStyle.Render("Format"),
				headerStyle.Render("Records"),
				headerStyle.Render("Location"))
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
					r.CreatedAt.UTC().Format(time.RFC3339), r.Format, r.Records, r.Location)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of exports to show")
	return cmd
}
