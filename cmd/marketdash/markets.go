package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alanyoungcy/marketdash/internal/domain"
	"github.com/alanyoungcy/marketdash/internal/export"
	"github.com/alanyoungcy/marketdash/internal/pagination"
)

// filterFlags are the criteria flags shared by markets and export.
type filterFlags struct {
	search     string
	category   string
	activeOnly bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "free-text search")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category code (politics, sports, crypto, finance, other)")
	cmd.Flags().BoolVar(&f.activeOnly, "active-only", false, "only list active markets")
}

func (f *filterFlags) criteria() domain.FilterCriteria {
	return domain.FilterCriteria{
		Search:     f.search,
		Category:   f.category,
		ActiveOnly: f.activeOnly,
	}.Normalized()
}

func marketsCmd(c *cli) *cobra.Command {
	var (
		filters filterFlags
		page    int
		limit   int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "markets",
		Short: "List one page of markets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if page < 1 {
				return fmt.Errorf("--page must be >= 1")
			}
			if limit == 0 {
				limit = c.cfg.Dashboard.DefaultPageSize
			}
			if limit < 1 {
				return fmt.Errorf("--limit must be >= 1")
			}

			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			criteria := filters.criteria()
			result, err := a.ListMarkets(cmd.Context(), criteria, page, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := export.EncodeJSON(result.Markets)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			labels := a.Deps().Exporter.Labels()
			renderMarkets(out, result.Markets, labels)
			st := pagination.NewState(page, limit, result.Pagination.Total)
			renderFooter(out, st, len(result.Markets), !criteria.IsEmpty(), labels)
			return nil
		},
	}

	filters.register(cmd)
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number (1-based)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "page size (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the page as JSON")
	return cmd
}
