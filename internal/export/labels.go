package export

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/alanyoungcy/marketdash/internal/domain"
	"github.com/alanyoungcy/marketdash/internal/pagination"
)

// DefaultLocale is the locale used for CSV headers and labels when none is
// configured.
const DefaultLocale = "zh-CN"

// Message keys double as the English text.
const (
	msgTitle       = "Title"
	msgPrice       = "Current Price"
	msgPriceRange  = "Price Range"
	msgCategory    = "Category"
	msgEndDate     = "End Date"
	msgStatus      = "Status"
	msgActive      = "Active"
	msgClosed      = "Closed"
	msgTokens      = "Outcomes"
	msgDescription = "Description"

	msgInactive = "Inactive"
	msgSettled  = "Settled"
	msgYes      = "Yes"
	msgNo       = "No"
	msgNoExpiry = "No expiry"
	msgCaption  = "Showing %d-%d of %d"
	msgCount    = "%d markets"
	msgFiltered = " (filtered)"
)

var chinese = map[string]string{
	msgTitle:       "标题",
	msgPrice:       "当前价格",
	msgPriceRange:  "价格区间",
	msgCategory:    "分类",
	msgEndDate:     "到期时间",
	msgStatus:      "状态",
	msgActive:      "活跃",
	msgClosed:      "已关闭",
	msgTokens:      "选项数",
	msgDescription: "描述",

	msgInactive: "非活跃",
	msgSettled:  "已结算",
	msgYes:      "是",
	msgNo:       "否",
	msgNoExpiry: "无到期时间",
	msgCaption:  "显示第 %d-%d 条，共 %d 条",
	msgCount:    "%d 个市场",
	msgFiltered: " (筛选结果)",

	"Politics": "政治",
	"Sports":   "体育",
	"Crypto":   "加密货币",
	"Finance":  "金融",
	"Other":    "其他",
}

// categoryNames maps category codes to their English display name.
var categoryNames = map[string]string{
	"politics": "Politics",
	"sports":   "Sports",
	"crypto":   "Crypto",
	"finance":  "Finance",
	"other":    "Other",
}

var (
	supported    = []language.Tag{language.English, language.Chinese}
	matcher      = language.NewMatcher(supported)
	labelCatalog = mustBuildCatalog()
)

func mustBuildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, zh := range chinese {
		if err := b.SetString(language.English, key, key); err != nil {
			panic(fmt.Sprintf("export: catalog: %v", err))
		}
		if err := b.SetString(language.Chinese, key, zh); err != nil {
			panic(fmt.Sprintf("export: catalog: %v", err))
		}
	}
	return b
}

// Labels renders localized column headers and yes/no style labels.
type Labels struct {
	tag language.Tag
	p   *message.Printer
}

// NewLabels picks the closest supported locale for the given BCP 47 tag.
// Unparseable or unsupported locales fall back to English.
func NewLabels(locale string) Labels {
	requested, err := language.Parse(locale)
	if err != nil {
		requested = language.Und
	}
	_, idx, _ := matcher.Match(requested)
	tag := supported[idx]
	return Labels{tag: tag, p: message.NewPrinter(tag, message.Catalog(labelCatalog))}
}

// Locale returns the matched locale.
func (l Labels) Locale() string {
	return l.tag.String()
}

func (l Labels) text(key string) string {
	return l.p.Sprintf(key)
}

// Header returns the ten CSV column names in order.
func (l Labels) Header() []string {
	keys := []string{
		msgTitle, msgPrice, msgPriceRange, msgCategory, msgEndDate,
		msgStatus, msgActive, msgClosed, msgTokens, msgDescription,
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = l.text(k)
	}
	return out
}

// ActiveText renders the active flag as Active/Inactive.
func (l Labels) ActiveText(active bool) string {
	if active {
		return l.text(msgActive)
	}
	return l.text(msgInactive)
}

// YesNo renders a boolean as Yes/No.
func (l Labels) YesNo(v bool) string {
	if v {
		return l.text(msgYes)
	}
	return l.text(msgNo)
}

// StatusText renders the derived market status; settled wins over active.
func (l Labels) StatusText(status domain.MarketStatus) string {
	switch status {
	case domain.MarketStatusSettled:
		return l.text(msgSettled)
	case domain.MarketStatusActive:
		return l.text(msgActive)
	default:
		return l.text(msgInactive)
	}
}

// CategoryName returns the display name of a category code, or the code
// itself when it is not a known category.
func (l Labels) CategoryName(code string) string {
	name, ok := categoryNames[code]
	if !ok {
		return code
	}
	return l.text(name)
}

// EndDate returns the formatted end date, or a placeholder when empty.
func (l Labels) EndDate(formatted string) string {
	if formatted == "" {
		return l.text(msgNoExpiry)
	}
	return formatted
}

// Caption describes the visible row window, e.g. "Showing 101-150 of 237".
func (l Labels) Caption(w pagination.Window, total int) string {
	return l.p.Sprintf(msgCaption, w.Start, w.End, total)
}

// MarketCount describes how many markets are listed, flagging filtered
// results.
func (l Labels) MarketCount(n int, filtered bool) string {
	s := l.p.Sprintf(msgCount, n)
	if filtered {
		s += l.text(msgFiltered)
	}
	return s
}
