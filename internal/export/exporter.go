// Package export serializes market lists to JSON or CSV artifacts.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/marketdash/internal/domain"
	"github.com/alanyoungcy/marketdash/internal/platform/marketapi"
	"github.com/alanyoungcy/marketdash/internal/query"
)

// MarketLister fetches one page of markets. *marketapi.Client implements it.
type MarketLister interface {
	ListMarkets(ctx context.Context, params marketapi.Params) (domain.MarketPage, error)
}

var _ MarketLister = (*marketapi.Client)(nil)

// Config holds export settings.
type Config struct {
	Dataset string
	Locale  string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock overrides the time source used for filenames.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithLogger sets the exporter's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) { e.logger = logger.With(slog.String("component", "export")) }
}

// Exporter fetches every record matching the active criteria and encodes
// them in the requested format.
type Exporter struct {
	lister  MarketLister
	dataset string
	labels  Labels
	now     func() time.Time
	logger  *slog.Logger
}

// NewExporter creates an Exporter. Empty config fields take their defaults.
func NewExporter(lister MarketLister, cfg Config, opts ...Option) *Exporter {
	if cfg.Dataset == "" {
		cfg.Dataset = DefaultDataset
	}
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	e := &Exporter{
		lister:  lister,
		dataset: cfg.Dataset,
		labels:  NewLabels(cfg.Locale),
		now:     time.Now,
		logger:  slog.Default().With(slog.String("component", "export")),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Labels returns the exporter's localized labels.
func (e *Exporter) Labels() Labels {
	return e.labels
}

// Export fetches all matching markets with a single request and encodes
// them. A failed fetch is returned unchanged and is not retried.
func (e *Exporter) Export(ctx context.Context, req domain.ExportRequest) (*domain.ExportArtifact, error) {
	createdAt := e.now().UTC()

	if req.Format != domain.ExportFormatJSON && req.Format != domain.ExportFormatCSV {
		return nil, fmt.Errorf("export: %w: %q", domain.ErrUnknownFormat, req.Format)
	}

	criteria := req.Criteria.Normalized()
	page, err := e.lister.ListMarkets(ctx, query.BuildExport(criteria))
	if err != nil {
		e.logger.Error("export fetch failed",
			slog.String("format", string(req.Format)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	data, err := Encode(req.Format, page.Markets, e.labels)
	if err != nil {
		return nil, fmt.Errorf("export: encode %s: %w", req.Format, err)
	}

	artifact := &domain.ExportArtifact{
		ID:        uuid.NewString(),
		Format:    req.Format,
		Filename:  filename(e.dataset, req.Format, createdAt),
		MIMEType:  req.Format.MIMEType(),
		Data:      data,
		Records:   len(page.Markets),
		Criteria:  criteria,
		CreatedAt: createdAt,
	}
	e.logger.Info("export ready",
		slog.String("id", artifact.ID),
		slog.String("filename", artifact.Filename),
		slog.Int("records", artifact.Records),
		slog.Int("bytes", len(data)),
	)
	return artifact, nil
}

// Encode serializes markets in the given format.
func Encode(format domain.ExportFormat, markets []domain.Market, labels Labels) ([]byte, error) {
	switch format {
	case domain.ExportFormatJSON:
		return EncodeJSON(markets)
	case domain.ExportFormatCSV:
		return EncodeCSV(markets, labels), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFormat, format)
	}
}
