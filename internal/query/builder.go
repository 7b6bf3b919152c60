// Package query turns filter criteria and a pagination cursor into the
// canonical parameter set for GET /markets.
package query

import (
	"github.com/alanyoungcy/marketdash/internal/domain"
	"github.com/alanyoungcy/marketdash/internal/platform/marketapi"
)

// AllRecords is the limit value the API agrees to read as "every matching
// record". It is a fixed server convention, not a general negative-limit rule.
const AllRecords = -1

// Parameter names understood by GET /markets.
const (
	ParamPage       = "page"
	ParamLimit      = "limit"
	ParamSearch     = "search"
	ParamCategory   = "category"
	ParamActiveOnly = "active_only"
)

// Build always sets page and limit. search is set only for non-blank text,
// category only when one is selected, and active_only only when true: the
// server's default is "no filter" and an explicit false would override it.
func Build(criteria domain.FilterCriteria, page, pageSize int) marketapi.Params {
	c := criteria.Normalized()

	params := marketapi.Params{
		ParamPage:  page,
		ParamLimit: pageSize,
	}
	if c.Search != "" {
		params[ParamSearch] = c.Search
	}
	if c.Category != "" {
		params[ParamCategory] = c.Category
	}
	if c.ActiveOnly {
		params[ParamActiveOnly] = true
	}
	return params
}

// BuildExport requests every record matching criteria in one response.
func BuildExport(criteria domain.FilterCriteria) marketapi.Params {
	return Build(criteria, 1, AllRecords)
}
