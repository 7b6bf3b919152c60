package domain

import "time"

// Category is one entry of GET /markets/categories.
type Category struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Count       int    `json:"count"`
}

// Stats is the payload of GET /markets/stats.
type Stats struct {
	TotalMarkets    int            `json:"total_markets"`
	ActiveMarkets   int            `json:"active_markets"`
	ClosedMarkets   int            `json:"closed_markets"`
	AcceptingOrders int            `json:"accepting_orders"`
	Categories      map[string]int `json:"categories"`
	LastUpdated     string         `json:"last_updated"`
}

// ServerSettings is the non-sensitive server configuration of GET /config.
type ServerSettings struct {
	ClobAPIURL     string `json:"clob_api_url"`
	RequestTimeout int    `json:"request_timeout"`
	MaxRetries     int    `json:"max_retries"`
	DefaultLimit   int    `json:"default_limit"`
	LogLevel       string `json:"log_level"`
}

// SettingsUpdate carries the updatable subset for PUT /config. Nil fields
// are left untouched on the server.
type SettingsUpdate struct {
	RequestTimeout *int    `json:"request_timeout,omitempty"`
	MaxRetries     *int    `json:"max_retries,omitempty"`
	DefaultLimit   *int    `json:"default_limit,omitempty"`
	LogLevel       *string `json:"log_level,omitempty"`
}

// SettingsUpdateResult is the data payload of PUT /config.
type SettingsUpdateResult struct {
	UpdatedFields []string       `json:"updated_fields"`
	Current       ServerSettings `json:"current_config"`
}

// Health is the payload of GET /health.
type Health struct {
	Status           string `json:"status"`
	ClobAPIConnected bool   `json:"clob_api_connected"`
	Timestamp        string `json:"timestamp"`
}

// SystemStatus is the payload of GET /status.
type SystemStatus struct {
	Application    string `json:"application"`
	Version        string `json:"version"`
	Environment    string `json:"environment"`
	ClobAPIURL     string `json:"clob_api_url"`
	RequestTimeout int    `json:"request_timeout"`
	MaxRetries     int    `json:"max_retries"`
	DefaultLimit   int    `json:"default_limit"`
}

// ExportRecord is one row of the export audit log.
type ExportRecord struct {
	ID        string
	Format    ExportFormat
	Filename  string
	Location  string
	Records   int
	Bytes     int
	Criteria  FilterCriteria
	CreatedAt time.Time
}
