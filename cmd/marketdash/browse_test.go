package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/marketdash/internal/dashboard"
	"github.com/alanyoungcy/marketdash/internal/domain"
	"github.com/alanyoungcy/marketdash/internal/export"
	"github.com/alanyoungcy/marketdash/internal/platform/marketapi"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    browseCommand
		wantErr bool
	}{
		{line: "", want: browseCommand{action: actNone}},
		{line: "/bitcoin etf", want: browseCommand{action: actSearch, arg: "bitcoin etf"}},
		{line: "search  rain ", want: browseCommand{action: actSearch, arg: "rain"}},
		{line: "cat crypto", want: browseCommand{action: actCategory, arg: "crypto"}},
		{line: "cat", want: browseCommand{action: actCategory}},
		{line: "active", want: browseCommand{action: actToggleActive}},
		{line: "n", want: browseCommand{action: actNext}},
		{line: "prev", want: browseCommand{action: actPrev}},
		{line: "g 4", want: browseCommand{action: actGoto, n: 4}},
		{line: "size 20", want: browseCommand{action: actSize, n: 20}},
		{line: "size big", wantErr: true},
		{line: "e", want: browseCommand{action: actExport, arg: "csv"}},
		{line: "export json", want: browseCommand{action: actExport, arg: "json"}},
		{line: "Q", want: browseCommand{action: actQuit}},
		{line: "dance", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			got, err := parseCommand(tc.line)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

type pageLister struct {
	mu     sync.Mutex
	total  int
	params []string
}

func (l *pageLister) ListMarkets(_ context.Context, p marketapi.Params) (domain.MarketPage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.params = append(l.params, p.Encode())
	return domain.MarketPage{
		Markets:    []domain.Market{{ID: "m1", Title: "Will it rain?", Active: true}},
		Pagination: domain.PageInfo{Total: l.total},
	}, nil
}

func (l *pageLister) calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.params...)
}

type stubExporter struct{}

func (stubExporter) Export(_ context.Context, req domain.ExportRequest) (*domain.ExportArtifact, error) {
	return &domain.ExportArtifact{ID: "x1", Format: req.Format, Filename: "f." + string(req.Format), Records: 1}, nil
}

func newTestBrowser(t *testing.T, lister *pageLister) (*browser, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	b := &browser{
		labels: export.NewLabels("en"),
		out:    out,
		deliver: func(_ context.Context, a *domain.ExportArtifact) (domain.ExportRecord, error) {
			return domain.ExportRecord{ID: a.ID, Format: a.Format, Location: "/tmp/" + a.Filename, Records: a.Records}, nil
		},
	}
	ctrl, err := dashboard.New(lister, stubExporter{}, dashboard.Config{Debounce: 10 * time.Millisecond},
		dashboard.WithOnChange(b.onChange))
	require.NoError(t, err)
	t.Cleanup(ctrl.Close)
	b.ctrl = ctrl
	return b, out
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestBrowserRunSession(t *testing.T) {
	lister := &pageLister{total: 237}
	b, out := newTestBrowser(t, lister)

	input := strings.Join([]string{"n", "g 5", "size 20", "cat crypto", "active", "e json", "q", "n"}, "\n")
	require.NoError(t, b.run(context.Background(), strings.NewReader(input)))

	assert.Equal(t, []string{
		"limit=50&page=1",
		"limit=50&page=2",
		"limit=50&page=5",
		"limit=20&page=1",
		"category=crypto&limit=20&page=1",
		"active_only=true&category=crypto&limit=20&page=1",
	}, lister.calls())

	s := out.String()
	assert.Contains(t, s, "Showing 1-50 of 237")
	assert.Contains(t, s, "1 markets (filtered)")
	assert.NotContains(t, s, "237 markets")
	assert.Contains(t, s, "Exported 1 records to /tmp/f.json")
}

func TestBrowserOutOfRangeAndBadInput(t *testing.T) {
	lister := &pageLister{total: 30}
	b, out := newTestBrowser(t, lister)

	input := "g 9\nsize 7\nexport xml\nwat\n"
	require.NoError(t, b.run(context.Background(), strings.NewReader(input)))

	assert.Equal(t, []string{"limit=50&page=1"}, lister.calls())
	s := out.String()
	assert.Contains(t, s, "invalid page size")
	assert.Contains(t, s, "unknown command")
}

func TestBrowserDebouncedSearch(t *testing.T) {
	lister := &pageLister{total: 1}
	b, _ := newTestBrowser(t, lister)
	ctx := context.Background()
	require.NoError(t, b.ctrl.Load(ctx))

	for _, q := range []string{"b", "bi", "bitcoin"} {
		_, err := b.execute(ctx, browseCommand{action: actSearch, arg: q})
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool { return len(lister.calls()) == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	calls := lister.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "limit=50&page=1&search=bitcoin", calls[1])
}
