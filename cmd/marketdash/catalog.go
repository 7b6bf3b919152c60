package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func categoriesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List market categories with counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			cats, err := a.Deps().Catalog.Categories(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(cats) == 0 {
				fmt.Fprintln(out, dimStyle.Render("No categories found."))
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			defer tw.Flush()
			fmt.Fprintf(tw, "%s\t%s\t%s\n",
				headerStyle.Render("Code"),
				headerStyle.Render("Name"),
				headerStyle.Render("Markets"))
			for _, cat := range cats {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", cat.Name, cat.DisplayName, cat.Count)
			}
			return nil
		},
	}
}

func statsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate market statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			s, err := a.Deps().Catalog.Stats(cmd.Context())
			if err != nil {
				return err
			}

			labels := a.Deps().Exporter.Labels()
			rows := [][2]string{
				{"Total", strconv.Itoa(s.TotalMarkets)},
				{"Active", strconv.Itoa(s.ActiveMarkets)},
				{"Closed", strconv.Itoa(s.ClosedMarkets)},
				{"Accepting orders", strconv.Itoa(s.AcceptingOrders)},
			}
			for _, code := range slices.Sorted(maps.Keys(s.Categories)) {
				rows = append(rows, [2]string{"  " + labels.CategoryName(code), strconv.Itoa(s.Categories[code])})
			}
			if s.LastUpdated != "" {
				rows = append(rows, [2]string{"Last updated", s.LastUpdated})
			}
			renderKV(cmd.OutOrStdout(), rows)
			return nil
		},
	}
}
