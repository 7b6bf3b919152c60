package export

import (
	"time"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

// DefaultDataset prefixes export filenames.
const DefaultDataset = "polymarket_markets"

const timestampLayout = "20060102T150405"

// BuildFilename returns "<dataset>_<YYYYMMDDTHHMMSS>.<ext>" using the UTC
// time of ts.
func BuildFilename(format domain.ExportFormat, ts time.Time) string {
	return filename(DefaultDataset, format, ts)
}

func filename(dataset string, format domain.ExportFormat, ts time.Time) string {
	return dataset + "_" + ts.UTC().Format(timestampLayout) + "." + format.Extension()
}
