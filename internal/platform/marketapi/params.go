package marketapi

import (
	"fmt"
	"net/url"
	"strconv"
)

// Params is a set of query parameters. Values are stringified when encoded:
// booleans as "true"/"false", numbers in plain decimal form.
type Params map[string]any

// Encode serializes p as a key=value&... query string with sorted keys.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	values := make(url.Values, len(p))
	for k, v := range p {
		values.Set(k, FormatValue(v))
	}
	return values.Encode()
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// FormatValue stringifies a single parameter value.
func FormatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
