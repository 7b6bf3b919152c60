package main

import (
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

func statusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show API health, system status and backend connectivity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			settings := a.Deps().Settings

			var (
				health   domain.Health
				status   domain.SystemStatus
				backends map[string]error
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				health, err = settings.Health(ctx)
				return err
			})
			g.Go(func() error {
				var err error
				status, err = settings.Status(ctx)
				return err
			})
			g.Go(func() error {
				backends = a.CheckBackends(ctx)
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}

			connected := errorStyle.Render("disconnected")
			if health.ClobAPIConnected {
				connected = successStyle.Render("connected")
			}
			rows := [][2]string{
				{"Application", status.Application},
				{"Version", status.Version},
				{"Environment", status.Environment},
				{"Health", health.Status},
				{"Upstream", connected},
				{"Upstream URL", status.ClobAPIURL},
				{"Request timeout", strconv.Itoa(status.RequestTimeout) + "s"},
				{"Max retries", strconv.Itoa(status.MaxRetries)},
				{"Default limit", strconv.Itoa(status.DefaultLimit)},
			}
			for _, name := range slices.Sorted(maps.Keys(backends)) {
				state := successStyle.Render("ok")
				if err := backends[name]; err != nil {
					state = errorStyle.Render(err.Error())
				}
				rows = append(rows, [2]string{name, state})
			}
			renderKV(cmd.OutOrStdout(), rows)
			return nil
		},
	}
}
