package export

import (
	"strconv"
	"strings"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

// byteOrderMark lets spreadsheet applications detect UTF-8.
const byteOrderMark = "\uFEFF"

// fieldEscaper doubles quotes and turns line breaks into two-character
// escapes so each record stays on one output line.
var fieldEscaper = strings.NewReplacer(`"`, `""`, "\n", `\n`, "\r", `\r`)

// EscapeField escapes s for use inside a double-quoted CSV field.
func EscapeField(s string) string {
	return fieldEscaper.Replace(s)
}

func quoted(s string) string {
	return `"` + EscapeField(s) + `"`
}

// EncodeCSV writes the BOM, a header line, and one line per market.
// Textual fields are quoted and escaped; numeric fields are written bare.
// Lines are separated by "\n" with no trailing newline.
func EncodeCSV(markets []domain.Market, labels Labels) []byte {
	var b strings.Builder
	b.WriteString(byteOrderMark)
	b.WriteString(strings.Join(labels.Header(), ","))

	row := make([]string, 10)
	for _, m := range markets {
		row[0] = quoted(m.Title)
		row[1] = strconv.FormatFloat(m.CurrentPrice, 'f', -1, 64)
		row[2] = quoted(m.PriceRange)
		row[3] = quoted(m.Category)
		row[4] = quoted(m.EndDateFormatted)
		row[5] = quoted(labels.ActiveText(m.Active))
		row[6] = quoted(labels.YesNo(m.Active))
		row[7] = quoted(labels.YesNo(m.Closed))
		row[8] = strconv.Itoa(m.TotalTokens)
		row[9] = quoted(m.Description)

		b.WriteByte('\n')
		b.WriteString(strings.Join(row, ","))
	}
	return []byte(b.String())
}
