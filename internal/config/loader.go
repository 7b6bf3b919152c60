package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load merges the TOML file at path on top of the built-in defaults, loads a
// .env file if one exists, and applies MARKETDASH_* environment overrides.
// An empty path or a missing file leaves the defaults in place. The returned
// Config has NOT been validated; call Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known MARKETDASH_* environment variables and
// overwrites the corresponding Config fields when a variable is set.
func applyEnvOverrides(cfg *Config) {
	// ── API ──
	setStr(&cfg.API.BaseURL, "MARKETDASH_API_BASE_URL")
	setDuration(&cfg.API.Timeout, "MARKETDASH_API_TIMEOUT")
	setStr(&cfg.API.APIKey, "MARKETDASH_API_KEY")

	// ── Dashboard ──
	setInt(&cfg.Dashboard.DefaultPageSize, "MARKETDASH_DASHBOARD_DEFAULT_PAGE_SIZE")
	setIntSlice(&cfg.Dashboard.PageSizes, "MARKETDASH_DASHBOARD_PAGE_SIZES")
	setDuration(&cfg.Dashboard.SearchDebounce, "MARKETDASH_DASHBOARD_SEARCH_DEBOUNCE")

	// ── Export ──
	setStr(&cfg.Export.Sink, "MARKETDASH_EXPORT_SINK")
	setStr(&cfg.Export.Dir, "MARKETDASH_EXPORT_DIR")
	setStr(&cfg.Export.Prefix, "MARKETDASH_EXPORT_PREFIX")
	setStr(&cfg.Export.Dataset, "MARKETDASH_EXPORT_DATASET")
	setStr(&cfg.Export.Locale, "MARKETDASH_EXPORT_LOCALE")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "MARKETDASH_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "MARKETDASH_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "MARKETDASH_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "MARKETDASH_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "MARKETDASH_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "MARKETDASH_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "MARKETDASH_REDIS_TLS_ENABLED")
	setDuration(&cfg.Redis.CatalogTTL, "MARKETDASH_REDIS_CATALOG_TTL")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "MARKETDASH_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "MARKETDASH_S3_REGION")
	setStr(&cfg.S3.Bucket, "MARKETDASH_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "MARKETDASH_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "MARKETDASH_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "MARKETDASH_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "MARKETDASH_S3_FORCE_PATH_STYLE")
	setInt64(&cfg.S3.MultipartThreshold, "MARKETDASH_S3_MULTIPART_THRESHOLD")
	setInt64(&cfg.S3.PartSize, "MARKETDASH_S3_PART_SIZE")

	// ── Postgres ──
	setBool(&cfg.Postgres.Enabled, "MARKETDASH_POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "MARKETDASH_POSTGRES_DSN")
	setStr(&cfg.Postgres.DSN, "DATABASE_URL") // compatibility alias
	setStr(&cfg.Postgres.Host, "MARKETDASH_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "MARKETDASH_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "MARKETDASH_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "MARKETDASH_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "MARKETDASH_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "MARKETDASH_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "MARKETDASH_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "MARKETDASH_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "MARKETDASH_POSTGRES_RUN_MIGRATIONS")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "MARKETDASH_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "MARKETDASH_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "MARKETDASH_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "MARKETDASH_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "MARKETDASH_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present, non-empty and parses.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		if cleaned := splitList(v); len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}

// setIntSlice replaces dst only when every element parses.
func setIntSlice(dst *[]int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	parts := splitList(v)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return
		}
		out = append(out, n)
	}
	if len(out) > 0 {
		*dst = out
	}
}
