package export

import (
	"bytes"
	"encoding/json"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

// EncodeJSON pretty-prints markets as a JSON array. Markets decoded from the
// API are written back exactly as received, field names included.
func EncodeJSON(markets []domain.Market) ([]byte, error) {
	if markets == nil {
		markets = []domain.Market{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(markets); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
