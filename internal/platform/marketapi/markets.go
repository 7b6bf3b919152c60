package marketapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

// envelope is the {success, data} wrapper around every response.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ListMarkets returns one page of markets for the given query parameters.
// GET /markets?page=&limit=&search=&category=&active_only=
func (c *Client) ListMarkets(ctx context.Context, params Params) (domain.MarketPage, error) {
	var page domain.MarketPage
	if err := c.getData(ctx, "/markets", params, &page); err != nil {
		return domain.MarketPage{}, err
	}
	if page.Markets == nil {
		page.Markets = []domain.Market{}
	}
	return page, nil
}

// GetMarket returns a single market by market or condition ID.
func (c *Client) GetMarket(ctx context.Context, id string) (domain.Market, error) {
	var m domain.Market
	if err := c.getData(ctx, "/markets/"+url.PathEscape(id), nil, &m); err != nil {
		return domain.Market{}, err
	}
	return m, nil
}

// Categories returns the category list with per-category counts.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var data struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := c.getData(ctx, "/markets/categories", nil, &data); err != nil {
		return nil, err
	}
	return data.Categories, nil
}

// Stats returns aggregate market statistics.
func (c *Client) Stats(ctx context.Context) (domain.Stats, error) {
	var s domain.Stats
	if err := c.getData(ctx, "/markets/stats", nil, &s); err != nil {
		return domain.Stats{}, err
	}
	return s, nil
}

// Settings returns the server's non-sensitive configuration.
func (c *Client) Settings(ctx context.Context) (domain.ServerSettings, error) {
	var s domain.ServerSettings
	if err := c.getData(ctx, "/config", nil, &s); err != nil {
		return domain.ServerSettings{}, err
	}
	return s, nil
}

// UpdateSettings sends the updatable subset with PUT /config.
func (c *Client) UpdateSettings(ctx context.Context, update domain.SettingsUpdate) (domain.SettingsUpdateResult, error) {
	raw, err := c.Put(ctx, "/config", update)
	if err != nil {
		return domain.SettingsUpdateResult{}, err
	}
	var res domain.SettingsUpdateResult
	if err := c.decodeData(ctx, http.MethodPut, "/config", raw, &res); err != nil {
		return domain.SettingsUpdateResult{}, err
	}
	return res, nil
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (domain.Health, error) {
	var h domain.Health
	if err := c.getData(ctx, "/health", nil, &h); err != nil {
		return domain.Health{}, err
	}
	return h, nil
}

// Status calls GET /status.
func (c *Client) Status(ctx context.Context) (domain.SystemStatus, error) {
	var s domain.SystemStatus
	if err := c.getData(ctx, "/status", nil, &s); err != nil {
		return domain.SystemStatus{}, err
	}
	return s, nil
}

func (c *Client) getData(ctx context.Context, path string, params Params, out any) error {
	raw, err := c.Get(ctx, path, params)
	if err != nil {
		return err
	}
	return c.decodeData(ctx, http.MethodGet, path, raw, out)
}

// decodeData unwraps the envelope's data member into out. A payload that does
// not match out's shape is a decode error, logged like any other failure.
func (c *Client) decodeData(ctx context.Context, method, path string, raw json.RawMessage, out any) error {
	var env envelope
	err := json.Unmarshal(raw, &env)
	if err == nil && len(env.Data) == 0 {
		err = fmt.Errorf("response has no data member")
	}
	if err == nil {
		err = json.Unmarshal(env.Data, out)
	}
	if err != nil {
		apiErr := domain.NewDecodeError(err)
		c.logger.ErrorContext(ctx, "request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("kind", string(apiErr.Kind)),
			slog.String("error", apiErr.Error()),
		)
		return apiErr
	}
	return nil
}
