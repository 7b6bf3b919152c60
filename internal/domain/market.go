package domain

import "encoding/json"

// MarketStatus is the display status derived from the active/closed flags.
type MarketStatus string

const (
	MarketStatusActive   MarketStatus = "active"
	MarketStatusInactive MarketStatus = "inactive"
	MarketStatusSettled  MarketStatus = "settled"
)

// Market is one listed record as served by GET /markets. Records are
// immutable once decoded; the exact JSON received is retained so that
// re-encoding reproduces the upstream object verbatim, including fields this
// struct does not model.
type Market struct {
	ID               string  `json:"market_id"`
	ConditionID      string  `json:"condition_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	CurrentPrice     float64 `json:"current_price"`
	PriceRange       string  `json:"price_range"`
	EndDate          string  `json:"end_date"`
	EndDateFormatted string  `json:"end_date_formatted"`
	Active           bool    `json:"active"`
	Closed           bool    `json:"closed"`
	AcceptingOrders  bool    `json:"accepting_orders"`
	TotalTokens      int     `json:"total_tokens"`
	WinningOutcome   string  `json:"winning_outcome"`

	raw json.RawMessage
}

// plainMarket has Market's fields without its JSON methods.
type plainMarket Market

// UnmarshalJSON decodes the modelled fields and keeps a copy of the source.
func (m *Market) UnmarshalJSON(data []byte) error {
	var p plainMarket
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = Market(p)
	m.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the source object when the market was decoded from the
// API, and the modelled fields otherwise.
func (m Market) MarshalJSON() ([]byte, error) {
	if len(m.raw) > 0 {
		return m.raw, nil
	}
	return json.Marshal(plainMarket(m))
}

// Status derives the display status: closed wins over active.
func (m Market) Status() MarketStatus {
	switch {
	case m.Closed:
		return MarketStatusSettled
	case m.Active:
		return MarketStatusActive
	default:
		return MarketStatusInactive
	}
}

// PageInfo is the pagination block returned alongside a page of markets.
type PageInfo struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// MarketPage is the data payload of GET /markets.
type MarketPage struct {
	Markets    []Market `json:"markets"`
	Pagination PageInfo `json:"pagination"`
}
