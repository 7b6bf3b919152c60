package app

import (
	"context"
	"fmt"
	"log/slog"

	localblob "github.com/alanyoungcy/marketdash/internal/blob/local"
	s3blob "github.com/alanyoungcy/marketdash/internal/blob/s3"
	"github.com/alanyoungcy/marketdash/internal/cache/redis"
	"github.com/alanyoungcy/marketdash/internal/config"
	"github.com/alanyoungcy/marketdash/internal/domain"
	"github.com/alanyoungcy/marketdash/internal/export"
	"github.com/alanyoungcy/marketdash/internal/notify"
	"github.com/alanyoungcy/marketdash/internal/platform/marketapi"
	"github.com/alanyoungcy/marketdash/internal/service"
	"github.com/alanyoungcy/marketdash/internal/store/postgres"
)

// Dependencies bundles the components the CLI drives. Optional
// infrastructure (Redis, S3, Postgres, notification channels) is connected
// only when configured.
type Dependencies struct {
	API      *marketapi.Client
	Exporter *export.Exporter
	Catalog  *service.CatalogService
	Settings *service.SettingsService
	Delivery *service.DeliveryService
	Notifier *notify.Notifier

	// Health checks for the optional backends, keyed by name.
	Checks map[string]func(context.Context) error
}

// Wire constructs every dependency from cfg and returns them together with a
// cleanup function that releases connections in reverse order.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*Dependencies, func(), error) {
		cleanup()
		return nil, nil, err
	}

	deps := &Dependencies{Checks: make(map[string]func(context.Context) error)}

	// --- Markets API ---
	apiOpts := []marketapi.Option{
		marketapi.WithTimeout(cfg.API.Timeout.Duration),
		marketapi.WithLogger(logger),
	}
	if cfg.API.APIKey != "" {
		apiOpts = append(apiOpts, marketapi.WithHeader("X-API-Key", cfg.API.APIKey))
	}
	deps.API = marketapi.NewClient(cfg.API.BaseURL, apiOpts...)

	deps.Exporter = export.NewExporter(deps.API, export.Config{
		Dataset: cfg.Export.Dataset,
		Locale:  cfg.Export.Locale,
	}, export.WithLogger(logger))

	deps.Settings = service.NewSettingsService(deps.API, logger)

	// --- Redis catalog cache ---
	var catalogCache domain.CatalogCache
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			return fail(fmt.Errorf("wire: redis: %w", err))
		}
		closers = append(closers, func() { _ = redisClient.Close() })
		catalogCache = redis.NewCatalogCache(redisClient)
		deps.Checks["redis"] = redisClient.Ping
	}

	labels := deps.Exporter.Labels()
	deps.Catalog = service.NewCatalogService(deps.API, catalogCache,
		cfg.Redis.CatalogTTL.Duration, labels.CategoryName, logger)

	// --- Export sink ---
	var sink domain.FileDelivery
	switch cfg.Export.Sink {
	case "s3":
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			return fail(fmt.Errorf("wire: s3: %w", err))
		}
		sink = s3blob.NewArtifactWriter(s3blob.NewWriter(s3Client), s3blob.ArtifactConfig{
			Bucket:             s3Client.Bucket(),
			Prefix:             cfg.Export.Prefix,
			MultipartThreshold: cfg.S3.MultipartThreshold,
			PartSize:           cfg.S3.PartSize,
		})
		deps.Checks["s3"] = s3Client.Health
	default:
		sink = localblob.NewWriter(cfg.Export.Dir)
	}

	// --- Postgres export log ---
	var exportLog domain.ExportLog
	if cfg.Postgres.Enabled {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			return fail(fmt.Errorf("wire: postgres: %w", err))
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				return fail(fmt.Errorf("wire: postgres migrations: %w", err))
			}
		}
		exportLog = postgres.NewExportLogStore(pgClient.Pool())
		deps.Checks["postgres"] = pgClient.Health
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	// Pass an untyped nil when nothing is configured so the delivery service
	// skips the side effect entirely.
	var notifier service.ExportNotifier
	if deps.Notifier.Enabled() {
		notifier = deps.Notifier
	}
	deps.Delivery = service.NewDeliveryService(sink, exportLog, notifier, logger)

	return deps, cleanup, nil
}
