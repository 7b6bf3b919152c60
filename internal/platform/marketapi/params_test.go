package marketapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsEncode(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{"nil", nil, ""},
		{"empty", Params{}, ""},
		{"ints and bools", Params{"page": 3, "limit": 50, "active_only": true}, "active_only=true&limit=50&page=3"},
		{"false bool", Params{"flag": false}, "flag=false"},
		{"negative sentinel", Params{"limit": -1}, "limit=-1"},
		{"float", Params{"min": 0.25, "whole": 2.0}, "min=0.25&whole=2"},
		{"escaping", Params{"search": "will it rain & snow?"}, "search=will+it+rain+%26+snow%3F"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.Encode())
		})
	}
}

func TestParamsCloneIsIndependent(t *testing.T) {
	p := Params{"page": 1}
	c := p.Clone()
	c["page"] = 2
	assert.Equal(t, 1, p["page"])
	assert.True(t, c.Has("page"))
	assert.False(t, c.Has("limit"))
}
