package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alanyoungcy/marketdash/internal/domain"
	"github.com/alanyoungcy/marketdash/internal/export"
	"github.com/alanyoungcy/marketdash/internal/pagination"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "比特币价…", truncate("比特币价格会涨吗", 5))
}

func TestRenderPlan(t *testing.T) {
	tests := []struct {
		page, total int
		want        string
	}{
		{1, 1, "‹ [1] ›"},
		{1, 3, "‹ [1] 2 3 ›"},
		{10, 20, "‹ 1 … 8 9 [10] 11 12 … 20 ›"},
	}
	for _, tc := range tests {
		got := renderPlan(pagination.BuildButtonPlan(tc.page, tc.total))
		assert.Equal(t, tc.want, got, "page %d of %d", tc.page, tc.total)
	}
}

func TestRenderMarkets(t *testing.T) {
	var buf bytes.Buffer
	labels := export.NewLabels("en")
	renderMarkets(&buf, []domain.Market{
		{ID: "m1", Title: "Will it rain?", CurrentPrice: 0.42, Category: "crypto", Active: true},
		{ID: "m2", Title: "Closed one", Closed: true, EndDateFormatted: "2026-12-31 00:00"},
	}, labels)

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Title")
	assert.Contains(t, lines[1], "$0.4200")
	assert.Contains(t, lines[1], "Crypto")
	assert.Contains(t, lines[1], "Active")
	assert.Contains(t, lines[1], "No expiry")
	assert.Contains(t, lines[2], "Settled")
	assert.Contains(t, lines[2], "2026-12-31 00:00")
}

func TestRenderMarketsEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderMarkets(&buf, nil, export.NewLabels("en"))
	assert.Equal(t, "No markets found.\n", buf.String())
}

func TestRenderFooter(t *testing.T) {
	var buf bytes.Buffer
	renderFooter(&buf, pagination.NewState(3, 50, 237), 50, true, export.NewLabels("en"))
	out := buf.String()
	assert.Contains(t, out, "Showing 101-150 of 237")
	assert.Contains(t, out, "50 markets (filtered)")
	assert.NotContains(t, out, "237 markets")
	assert.Contains(t, out, "[3]")
}

func TestRenderFooterCountsShownRowsOnLastPage(t *testing.T) {
	var buf bytes.Buffer
	renderFooter(&buf, pagination.NewState(5, 50, 237), 37, false, export.NewLabels("en"))
	out := buf.String()
	assert.Contains(t, out, "Showing 201-237 of 237")
	assert.Contains(t, out, "37 markets")
	assert.NotContains(t, out, "(filtered)")
}
