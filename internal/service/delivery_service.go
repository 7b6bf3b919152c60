package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

// ExportNotifier announces delivered exports.
type ExportNotifier interface {
	NotifyExport(ctx context.Context, rec domain.ExportRecord) error
}

// ErrNoExportLog is returned by History when no audit log is configured.
var ErrNoExportLog = errors.New("delivery_service: export log not configured")

// DeliveryService hands export artifacts to a sink, then records and
// announces them. Only the sink can fail a delivery; audit and notification
// failures are logged.
type DeliveryService struct {
	sink     domain.FileDelivery
	log      domain.ExportLog
	notifier ExportNotifier
	logger   *slog.Logger
}

// NewDeliveryService creates a DeliveryService. log and notifier may be nil.
func NewDeliveryService(sink domain.FileDelivery, log domain.ExportLog, notifier ExportNotifier, logger *slog.Logger) *DeliveryService {
	return &DeliveryService{
		sink:     sink,
		log:      log,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "delivery_service")),
	}
}

// Deliver writes the artifact and returns its audit record.
func (s *DeliveryService) Deliver(ctx context.Context, artifact *domain.ExportArtifact) (domain.ExportRecord, error) {
	location, err := s.sink.Deliver(ctx, *artifact)
	if err != nil {
		return domain.ExportRecord{}, fmt.Errorf("delivery_service: deliver %s: %w", artifact.Filename, err)
	}

	rec := domain.ExportRecord{
		ID:        artifact.ID,
		Format:    artifact.Format,
		Filename:  artifact.Filename,
		Location:  location,
		Records:   artifact.Records,
		Bytes:     len(artifact.Data),
		Criteria:  artifact.Criteria,
		CreatedAt: artifact.CreatedAt,
	}

	if s.log != nil {
		if err := s.log.Record(ctx, rec); err != nil {
			s.logger.WarnContext(ctx, "delivery_service: record export failed",
				slog.String("id", rec.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyExport(ctx, rec); err != nil {
			s.logger.WarnContext(ctx, "delivery_service: notify failed",
				slog.String("id", rec.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "delivery_service: export delivered",
		slog.String("id", rec.ID),
		slog.String("location", location),
		slog.Int("bytes", rec.Bytes),
	)
	return rec, nil
}

// History lists the most recent deliveries, newest first.
func (s *DeliveryService) History(ctx context.Context, limit int) ([]domain.ExportRecord, error) {
	if s.log == nil {
		return nil, ErrNoExportLog
	}
	recs, err := s.log.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("delivery_service: list recent: %w", err)
	}
	return recs, nil
}
