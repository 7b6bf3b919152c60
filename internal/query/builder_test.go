package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alanyoungcy/marketdash/internal/domain"
	"github.com/alanyoungcy/marketdash/internal/platform/marketapi"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		criteria domain.FilterCriteria
		page     int
		size     int
		want     marketapi.Params
	}{
		{
			name:     "no filter",
			criteria: domain.FilterCriteria{},
			page:     1,
			size:     50,
			want:     marketapi.Params{"page": 1, "limit": 50},
		},
		{
			name:     "blank search is omitted",
			criteria: domain.FilterCriteria{Search: "   \t"},
			page:     2,
			size:     20,
			want:     marketapi.Params{"page": 2, "limit": 20},
		},
		{
			name:     "search is trimmed",
			criteria: domain.FilterCriteria{Search: "  election "},
			page:     1,
			size:     10,
			want:     marketapi.Params{"page": 1, "limit": 10, "search": "election"},
		},
		{
			name:     "category selected",
			criteria: domain.FilterCriteria{Category: "crypto"},
			page:     3,
			size:     100,
			want:     marketapi.Params{"page": 3, "limit": 100, "category": "crypto"},
		},
		{
			name:     "active only",
			criteria: domain.FilterCriteria{ActiveOnly: true},
			page:     1,
			size:     50,
			want:     marketapi.Params{"page": 1, "limit": 50, "active_only": true},
		},
		{
			name:     "everything",
			criteria: domain.FilterCriteria{Search: "btc", Category: "crypto", ActiveOnly: true},
			page:     4,
			size:     10,
			want: marketapi.Params{
				"page": 4, "limit": 10, "search": "btc", "category": "crypto", "active_only": true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build(tt.criteria, tt.page, tt.size))
		})
	}
}

func TestBuildNeverSendsFalseOrEmpty(t *testing.T) {
	searches := []string{"", " ", "x"}
	categories := []string{"", "sports"}
	for _, s := range searches {
		for _, c := range categories {
			for _, active := range []bool{false, true} {
				p := Build(domain.FilterCriteria{Search: s, Category: c, ActiveOnly: active}, 1, 50)

				assert.True(t, p.Has(ParamPage))
				assert.True(t, p.Has(ParamLimit))
				if v, ok := p[ParamActiveOnly]; ok {
					assert.Equal(t, true, v)
				} else {
					assert.False(t, active)
				}
				if v, ok := p[ParamSearch]; ok {
					assert.NotEmpty(t, v)
				}
				if v, ok := p[ParamCategory]; ok {
					assert.NotEmpty(t, v)
				}
				assert.NotContains(t, p.Encode(), "active_only=false")
			}
		}
	}
}

func TestBuildExportUsesAllRecordsSentinel(t *testing.T) {
	p := BuildExport(domain.FilterCriteria{Category: "politics"})
	assert.Equal(t, "category=politics&limit=-1&page=1", p.Encode())
}
