package domain

import "strings"

// FilterCriteria is the active filter selection. Zero values mean "absent":
// an empty Search or Category is not sent, and ActiveOnly is only sent when
// true. The zero FilterCriteria therefore means "no filter".
type FilterCriteria struct {
	Search     string
	Category   string
	ActiveOnly bool
}

// Normalized returns a copy with surrounding whitespace trimmed.
func (c FilterCriteria) Normalized() FilterCriteria {
	return FilterCriteria{
		Search:     strings.TrimSpace(c.Search),
		Category:   strings.TrimSpace(c.Category),
		ActiveOnly: c.ActiveOnly,
	}
}

// IsEmpty reports whether no criterion is set.
func (c FilterCriteria) IsEmpty() bool {
	n := c.Normalized()
	return n.Search == "" && n.Category == "" && !n.ActiveOnly
}
