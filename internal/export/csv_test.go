package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

var unescaper = strings.NewReplacer(`\n`, "\n", `\r`, "\r")

// parseExport reads EncodeCSV output back into rows with the line-break
// escapes undone.
func parseExport(t *testing.T, data []byte) [][]string {
	t.Helper()
	text := string(data)
	require.True(t, strings.HasPrefix(text, byteOrderMark), "missing BOM")

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(text, byteOrderMark)))
	r.FieldsPerRecord = 10
	rows, err := r.ReadAll()
	require.NoError(t, err)
	for _, row := range rows[1:] {
		for i := range row {
			row[i] = unescaper.Replace(row[i])
		}
	}
	return rows
}

func TestEncodeCSVLayout(t *testing.T) {
	markets := []domain.Market{{
		Title:            "A",
		CurrentPrice:     0.65,
		PriceRange:       "0.60-0.70",
		Category:         "politics",
		EndDateFormatted: "2026-11-03",
		Active:           true,
		TotalTokens:      2,
		Description:      "d",
	}, {
		Title:        "B",
		CurrentPrice: 1,
		Category:     "sports",
		Closed:       true,
	}}

	got := string(EncodeCSV(markets, NewLabels("zh-CN")))
	want := byteOrderMark +
		"标题,当前价格,价格区间,分类,到期时间,状态,活跃,已关闭,选项数,描述\n" +
		`"A",0.65,"0.60-0.70","politics","2026-11-03","活跃","是","否",2,"d"` + "\n" +
		`"B",1,"","sports","","非活跃","否","是",0,""`
	assert.Equal(t, want, got)
}

func TestEncodeCSVEnglishLabels(t *testing.T) {
	got := string(EncodeCSV([]domain.Market{{Title: "x", Active: true}}, NewLabels("en-US")))
	lines := strings.Split(strings.TrimPrefix(got, byteOrderMark), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Title,Current Price,Price Range,Category,End Date,Status,Active,Closed,Outcomes,Description", lines[0])
	assert.Equal(t, `"x",0,"","","","Active","Yes","No",0,""`, lines[1])
}

func TestEncodeCSVEmpty(t *testing.T) {
	got := string(EncodeCSV(nil, NewLabels("zh-CN")))
	assert.Equal(t, byteOrderMark+"标题,当前价格,价格区间,分类,到期时间,状态,活跃,已关闭,选项数,描述", got)
}

func TestEncodeCSVEscapesQuotesAndLineBreaks(t *testing.T) {
	m := domain.Market{Title: "He said \"hi\"\n", Description: "line1\r\nline2"}
	got := string(EncodeCSV([]domain.Market{m}, NewLabels("en")))

	assert.Contains(t, got, `"He said ""hi""\n"`)
	assert.Contains(t, got, `"line1\r\nline2"`)
	assert.Equal(t, 1, strings.Count(got, "\n"), "each record must stay on one line")
	assert.NotContains(t, got, "\r")
}

func TestEncodeCSVRoundTrip(t *testing.T) {
	markets := []domain.Market{
		{Title: `He said "hi"` + "\n", Description: "multi\nline\r\ndescription"},
		{Title: `""`, Description: `a, "b", c`},
		{Title: "多语言 标题", Description: ""},
		{Title: "trailing CR\r", Description: "\n\n"},
	}

	rows := parseExport(t, EncodeCSV(markets, NewLabels("zh-CN")))
	require.Len(t, rows, len(markets)+1)
	for i, m := range markets {
		assert.Equal(t, m.Title, rows[i+1][0], "title of row %d", i)
		assert.Equal(t, m.Description, rows[i+1][9], "description of row %d", i)
	}
}

func TestEscapeField(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"plain":            "plain",
		`"`:                `""`,
		"a\nb":             `a\nb`,
		"a\rb":             `a\rb`,
		"a,b":              "a,b",
		`say "x"` + "\r\n": `say ""x""\r\n`,
	}
	for in, want := range tests {
		assert.Equal(t, want, EscapeField(in), "input %q", in)
	}
}
