// Package app wires the marketdash components together from configuration
// and exposes the operations the command line drives.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/marketdash/internal/config"
	"github.com/alanyoungcy/marketdash/internal/dashboard"
	"github.com/alanyoungcy/marketdash/internal/domain"
	"github.com/alanyoungcy/marketdash/internal/query"
)

// App is the root application object. It owns the configuration, logger,
// wired dependencies, and cleanup functions called in reverse order by Close.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	deps    *Dependencies
	closers []func()
}

// New wires every dependency from cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	deps, cleanup, err := Wire(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("app: wire dependencies: %w", err)
	}
	return &App{
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "app")),
		deps:    deps,
		closers: []func(){cleanup},
	}, nil
}

// Deps returns the wired dependencies.
func (a *App) Deps() *Dependencies {
	return a.deps
}

// Config returns the active configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// NewController creates a dashboard controller backed by the markets API and
// the exporter.
func (a *App) NewController(opts ...dashboard.Option) (*dashboard.Controller, error) {
	opts = append([]dashboard.Option{dashboard.WithLogger(a.logger)}, opts...)
	return dashboard.New(a.deps.API, a.deps.Exporter, dashboard.Config{
		PageSizes:       a.cfg.Dashboard.PageSizes,
		DefaultPageSize: a.cfg.Dashboard.DefaultPageSize,
		Debounce:        a.cfg.Dashboard.SearchDebounce.Duration,
	}, opts...)
}

// ListMarkets fetches one page of markets for the given criteria.
func (a *App) ListMarkets(ctx context.Context, criteria domain.FilterCriteria, page, pageSize int) (domain.MarketPage, error) {
	return a.deps.API.ListMarkets(ctx, query.Build(criteria, page, pageSize))
}

// Export builds an artifact for req and delivers it to the configured sink.
func (a *App) Export(ctx context.Context, req domain.ExportRequest) (domain.ExportRecord, error) {
	artifact, err := a.deps.Exporter.Export(ctx, req)
	if err != nil {
		return domain.ExportRecord{}, err
	}
	return a.Deliver(ctx, artifact)
}

// Deliver hands an artifact produced elsewhere (e.g. by a dashboard
// controller) to the configured sink.
func (a *App) Deliver(ctx context.Context, artifact *domain.ExportArtifact) (domain.ExportRecord, error) {
	return a.deps.Delivery.Deliver(ctx, artifact)
}

// CheckBackends runs the health check of every connected optional backend
// and returns each result by name.
func (a *App) CheckBackends(ctx context.Context) map[string]error {
	out := make(map[string]error, len(a.deps.Checks))
	for name, check := range a.deps.Checks {
		out[name] = check(ctx)
	}
	return out
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
