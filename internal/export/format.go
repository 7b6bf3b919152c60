package export

import (
	"math"

	"github.com/shopspring/decimal"
)

// FormatPrice renders a price as dollars with four decimal places. Values
// that are not finite numbers render as $0.0000.
func FormatPrice(price float64) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return "$0.0000"
	}
	return "$" + decimal.NewFromFloat(price).StringFixed(4)
}
