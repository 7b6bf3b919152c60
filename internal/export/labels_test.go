package export

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alanyoungcy/marketdash/internal/domain"
	"github.com/alanyoungcy/marketdash/internal/pagination"
)

func TestNewLabelsMatchesLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   string
		yes    string
	}{
		{"zh-CN", "zh", "是"},
		{"zh", "zh", "是"},
		{"en", "en", "Yes"},
		{"en-GB", "en", "Yes"},
		{"fr", "en", "Yes"},
		{"not a locale!", "en", "Yes"},
	}
	for _, tt := range tests {
		l := NewLabels(tt.locale)
		assert.Equal(t, tt.want, l.Locale(), tt.locale)
		assert.Equal(t, tt.yes, l.YesNo(true), tt.locale)
	}
}

func TestStatusText(t *testing.T) {
	zh := NewLabels("zh-CN")
	assert.Equal(t, "已结算", zh.StatusText(domain.Market{Active: true, Closed: true}.Status()))
	assert.Equal(t, "活跃", zh.StatusText(domain.Market{Active: true}.Status()))
	assert.Equal(t, "非活跃", zh.StatusText(domain.Market{}.Status()))

	en := NewLabels("en")
	assert.Equal(t, "Settled", en.StatusText(domain.MarketStatusSettled))
}

func TestCategoryName(t *testing.T) {
	zh := NewLabels("zh-CN")
	assert.Equal(t, "政治", zh.CategoryName("politics"))
	assert.Equal(t, "加密货币", zh.CategoryName("crypto"))
	assert.Equal(t, "weather", zh.CategoryName("weather"))
	assert.Equal(t, "Finance", NewLabels("en").CategoryName("finance"))
}

func TestEndDatePlaceholder(t *testing.T) {
	assert.Equal(t, "无到期时间", NewLabels("zh-CN").EndDate(""))
	assert.Equal(t, "2026-01-01", NewLabels("zh-CN").EndDate("2026-01-01"))
}

func TestCaption(t *testing.T) {
	w := pagination.ComputeWindow(3, 50, 237)
	assert.Equal(t, "Showing 101-150 of 237", NewLabels("en").Caption(w, 237))
	assert.Equal(t, "显示第 101-150 条，共 237 条", NewLabels("zh-CN").Caption(w, 237))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$0.4200", FormatPrice(0.42))
	assert.Equal(t, "$1.0000", FormatPrice(1))
	assert.Equal(t, "$0.1235", FormatPrice(0.12345))
	assert.Equal(t, "$0.0000", FormatPrice(0))
	assert.Equal(t, "$0.0000", FormatPrice(math.NaN()))
	assert.Equal(t, "$0.0000", FormatPrice(math.Inf(1)))
}

func TestMarketCount(t *testing.T) {
	assert.Equal(t, "12 个市场", NewLabels("zh-CN").MarketCount(12, false))
	assert.Equal(t, "12 个市场 (筛选结果)", NewLabels("zh-CN").MarketCount(12, true))
	assert.Equal(t, "3 markets (filtered)", NewLabels("en").MarketCount(3, true))
}
