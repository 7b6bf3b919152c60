// Package config defines the configuration of the marketdash client and
// provides validation helpers.
package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by MARKETDASH_* environment variables.
type Config struct {
	API       APIConfig       `toml:"api"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Export    ExportConfig    `toml:"export"`
	Redis     RedisConfig     `toml:"redis"`
	S3        S3Config        `toml:"s3"`
	Postgres  PostgresConfig  `toml:"postgres"`
	Notify    NotifyConfig    `toml:"notify"`
	LogLevel  string          `toml:"log_level"`
}

// APIConfig points the client at the markets REST API.
type APIConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout duration `toml:"timeout"`
	APIKey  string   `toml:"api_key"`
}

// DashboardConfig holds table and search behaviour.
type DashboardConfig struct {
	DefaultPageSize int      `toml:"default_page_size"`
	PageSizes       []int    `toml:"page_sizes"`
	SearchDebounce  duration `toml:"search_debounce"`
}

// ExportConfig controls artifact naming and where artifacts are delivered.
type ExportConfig struct {
	Sink    string `toml:"sink"` // "local" or "s3"
	Dir     string `toml:"dir"`
	Prefix  string `toml:"prefix"`
	Dataset string `toml:"dataset"`
	Locale  string `toml:"locale"`
}

// RedisConfig holds Redis connection parameters for the catalog cache.
type RedisConfig struct {
	Enabled    bool     `toml:"enabled"`
	Addr       string   `toml:"addr"`
	Password   string   `toml:"password"`
	DB         int      `toml:"db"`
	PoolSize   int      `toml:"pool_size"`
	MaxRetries int      `toml:"max_retries"`
	TLSEnabled bool     `toml:"tls_enabled"`
	CatalogTTL duration `toml:"catalog_ttl"`
}

// S3Config holds S3-compatible object storage parameters.
type S3Config struct {
	Endpoint           string `toml:"endpoint"`
	Region             string `toml:"region"`
	Bucket             string `toml:"bucket"`
	AccessKey          string `toml:"access_key"`
	SecretKey          string `toml:"secret_key"`
	UseSSL             bool   `toml:"use_ssl"`
	ForcePathStyle     bool   `toml:"force_path_style"`
	MultipartThreshold int64  `toml:"multipart_threshold"`
	PartSize           int64  `toml:"part_size"`
}

// PostgresConfig holds connection parameters for the export audit log.
type PostgresConfig struct {
	Enabled       bool   `toml:"enabled"`
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "500ms", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with the values used when neither the
// TOML file nor the environment sets a field.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000/api/v1",
			Timeout: duration{30 * time.Second},
		},
		Dashboard: DashboardConfig{
			DefaultPageSize: 50,
			PageSizes:       []int{10, 20, 50, 100},
			SearchDebounce:  duration{500 * time.Millisecond},
		},
		Export: ExportConfig{
			Sink:    "local",
			Dir:     ".",
			Prefix:  "exports/",
			Dataset: "polymarket_markets",
			Locale:  "zh-CN",
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			PoolSize:   10,
			MaxRetries: 3,
			CatalogTTL: duration{5 * time.Minute},
		},
		S3: S3Config{
			Endpoint:           "http://localhost:9000",
			Region:             "us-east-1",
			Bucket:             "marketdash-exports",
			ForcePathStyle:     true,
			MultipartThreshold: 5 << 20,
			PartSize:           5 << 20,
		},
		Postgres: PostgresConfig{
			Enabled:       false,
			Host:          "localhost",
			Port:          5432,
			Database:      "postgres",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  4,
			PoolMinConns:  0,
			RunMigrations: true,
		},
		Notify: NotifyConfig{
			Events: []string{"export_completed"},
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validSinks = map[string]bool{
	"local": true,
	"s3":    true,
}

// minPartSize is the smallest part S3 accepts in a multipart upload.
const minPartSize = 5 << 20

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// API
	if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("api: base_url must be an absolute http(s) URL, got %q", c.API.BaseURL))
	}
	if c.API.Timeout.Duration <= 0 {
		errs = append(errs, "api: timeout must be > 0")
	}

	// Dashboard
	if len(c.Dashboard.PageSizes) == 0 {
		errs = append(errs, "dashboard: page_sizes must not be empty")
	}
	for _, n := range c.Dashboard.PageSizes {
		if n < 1 {
			errs = append(errs, fmt.Sprintf("dashboard: page size must be >= 1, got %d", n))
		}
	}
	if !slices.Contains(c.Dashboard.PageSizes, c.Dashboard.DefaultPageSize) {
		errs = append(errs, fmt.Sprintf("dashboard: default_page_size %d is not one of page_sizes %v",
			c.Dashboard.DefaultPageSize, c.Dashboard.PageSizes))
	}
	if c.Dashboard.SearchDebounce.Duration < 0 {
		errs = append(errs, "dashboard: search_debounce must be >= 0")
	}

	// Export
	if !validSinks[c.Export.Sink] {
		errs = append(errs, fmt.Sprintf("export: unknown sink %q (valid: local, s3)", c.Export.Sink))
	}
	if c.Export.Sink == "local" && strings.TrimSpace(c.Export.Dir) == "" {
		errs = append(errs, "export: dir must not be empty for the local sink")
	}
	if strings.TrimSpace(c.Export.Dataset) == "" || strings.ContainsAny(c.Export.Dataset, `/\ `) {
		errs = append(errs, fmt.Sprintf("export: dataset must be a non-empty file name prefix, got %q", c.Export.Dataset))
	}
	if _, err := language.Parse(c.Export.Locale); err != nil {
		errs = append(errs, fmt.Sprintf("export: locale %q is not a BCP 47 tag", c.Export.Locale))
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
		if c.Redis.CatalogTTL.Duration <= 0 {
			errs = append(errs, "redis: catalog_ttl must be > 0")
		}
	}

	// S3
	if c.Export.Sink == "s3" {
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty")
		}
		if c.S3.PartSize < minPartSize {
			errs = append(errs, fmt.Sprintf("s3: part_size must be >= %d", minPartSize))
		}
		if c.S3.MultipartThreshold < 1 {
			errs = append(errs, "s3: multipart_threshold must be >= 1")
		}
	}

	// Postgres
	if c.Postgres.Enabled {
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			if c.Postgres.Host == "" {
				errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
			}
			if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
				errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
			}
			if c.Postgres.Database == "" {
				errs = append(errs, "postgres: database must not be empty")
			}
		}
		if c.Postgres.PoolMaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.PoolMinConns < 0 || c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must be between 0 and pool_max_conns")
		}
	}

	// Notify
	if (c.Notify.TelegramToken == "") != (c.Notify.TelegramChatID == "") {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
