package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/alanyoungcy/marketdash/internal/domain"
	"github.com/alanyoungcy/marketdash/internal/platform/marketapi"
)

// SettingsAPI is the subset of the market API that manages server settings.
type SettingsAPI interface {
	Settings(ctx context.Context) (domain.ServerSettings, error)
	UpdateSettings(ctx context.Context, update domain.SettingsUpdate) (domain.SettingsUpdateResult, error)
	Health(ctx context.Context) (domain.Health, error)
	Status(ctx context.Context) (domain.SystemStatus, error)
}

var _ SettingsAPI = (*marketapi.Client)(nil)

// Accepted ranges for updatable settings.
const (
	MinRequestTimeout = 1
	MaxRequestTimeout = 300
	MinMaxRetries     = 0
	MaxMaxRetries     = 10
	MinDefaultLimit   = 10
	MaxDefaultLimit   = 1000
)

// LogLevels are the server log levels accepted by PUT /config.
var LogLevels = []string{"DEBUG", "INFO", "WARNING", "ERROR"}

// DefaultSettings returns the values a settings reset restores.
func DefaultSettings() domain.SettingsUpdate {
	timeout, retries, limit, level := 30, 3, 50, "INFO"
	return domain.SettingsUpdate{
		RequestTimeout: &timeout,
		MaxRetries:     &retries,
		DefaultLimit:   &limit,
		LogLevel:       &level,
	}
}

// ValidateSettings checks every set field and reports all problems in one
// validation error.
func ValidateSettings(u domain.SettingsUpdate) error {
	var problems []string
	if u.RequestTimeout == nil && u.MaxRetries == nil && u.DefaultLimit == nil && u.LogLevel == nil {
		problems = append(problems, "no settings to update")
	}
	if v := u.RequestTimeout; v != nil && (*v < MinRequestTimeout || *v > MaxRequestTimeout) {
		problems = append(problems, fmt.Sprintf("request_timeout must be between %d and %d seconds", MinRequestTimeout, MaxRequestTimeout))
	}
	if v := u.MaxRetries; v != nil && (*v < MinMaxRetries || *v > MaxMaxRetries) {
		problems = append(problems, fmt.Sprintf("max_retries must be between %d and %d", MinMaxRetries, MaxMaxRetries))
	}
	if v := u.DefaultLimit; v != nil && (*v < MinDefaultLimit || *v > MaxDefaultLimit) {
		problems = append(problems, fmt.Sprintf("default_limit must be between %d and %d", MinDefaultLimit, MaxDefaultLimit))
	}
	if v := u.LogLevel; v != nil && !slices.Contains(LogLevels, strings.ToUpper(*v)) {
		problems = append(problems, fmt.Sprintf("log_level must be one of %s", strings.Join(LogLevels, ", ")))
	}
	if len(problems) > 0 {
		return domain.NewValidationError(problems)
	}
	return nil
}

// SettingsService reads, validates and updates server settings.
type SettingsService struct {
	api    SettingsAPI
	logger *slog.Logger
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(api SettingsAPI, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		api:    api,
		logger: logger.With(slog.String("component", "settings_service")),
	}
}

// Get returns the current server settings.
func (s *SettingsService) Get(ctx context.Context) (domain.ServerSettings, error) {
	return s.api.Settings(ctx)
}

// Update validates u locally and sends it. Invalid input never reaches the
// network.
func (s *SettingsService) Update(ctx context.Context, u domain.SettingsUpdate) (domain.SettingsUpdateResult, error) {
	if u.LogLevel != nil {
		level := strings.ToUpper(*u.LogLevel)
		u.LogLevel = &level
	}
	if err := ValidateSettings(u); err != nil {
		return domain.SettingsUpdateResult{}, err
	}
	res, err := s.api.UpdateSettings(ctx, u)
	if err != nil {
		return domain.SettingsUpdateResult{}, err
	}
	s.logger.InfoContext(ctx, "settings updated",
		slog.String("fields", strings.Join(res.UpdatedFields, ",")),
	)
	return res, nil
}

// Reset restores the default settings.
func (s *SettingsService) Reset(ctx context.Context) (domain.SettingsUpdateResult, error) {
	return s.Update(ctx, DefaultSettings())
}

// Validate checks u locally, then confirms the API reports a live upstream
// connection. It changes nothing.
func (s *SettingsService) Validate(ctx context.Context, u domain.SettingsUpdate) (domain.Health, error) {
	if err := ValidateSettings(u); err != nil {
		return domain.Health{}, err
	}
	h, err := s.api.Health(ctx)
	if err != nil {
		return domain.Health{}, err
	}
	if !h.ClobAPIConnected {
		return h, fmt.Errorf("settings_service: health status %q: %w", h.Status, domain.ErrDisconnected)
	}
	return h, nil
}

// Health returns GET /health.
func (s *SettingsService) Health(ctx context.Context) (domain.Health, error) {
	return s.api.Health(ctx)
}

// Status returns GET /status.
func (s *SettingsService) Status(ctx context.Context) (domain.SystemStatus, error) {
	return s.api.Status(ctx)
}
