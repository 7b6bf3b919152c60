package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/alanyoungcy/marketdash/internal/domain"
	"github.com/alanyoungcy/marketdash/internal/export"
	"github.com/alanyoungcy/marketdash/internal/pagination"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	currentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

const maxTitleWidth = 60

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// renderMarkets prints one page of markets as an aligned table.
func renderMarkets(w io.Writer, markets []domain.Market, labels export.Labels) {
	if len(markets) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No markets found."))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	h := labels.Header()
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("ID"),
		headerStyle.Render(h[0]),
		headerStyle.Render(h[1]),
		headerStyle.Render(h[3]),
		headerStyle.Render(h[5]),
		headerStyle.Render(h[4]),
	)
	for _, m := range markets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			m.ID,
			truncate(m.Title, maxTitleWidth),
			export.FormatPrice(m.CurrentPrice),
			labels.CategoryName(m.Category),
			labels.StatusText(m.Status()),
			labels.EndDate(m.EndDateFormatted),
		)
	}
}

// renderPlan prints the pagination bar, e.g. "‹ 1 … 4 5 [6] 7 8 … 20 ›".
// Disabled arrows are dimmed.
func renderPlan(plan pagination.ButtonPlan) string {
	parts := make([]string, 0, len(plan.Buttons)+2)
	parts = append(parts, navLabel("‹", plan.Prev))
	for _, b := range plan.Buttons {
		switch {
		case b.Kind == pagination.ButtonEllipsis:
			parts = append(parts, "…")
		case b.Current:
			parts = append(parts, currentStyle.Render("["+strconv.Itoa(b.Page)+"]"))
		default:
			parts = append(parts, strconv.Itoa(b.Page))
		}
	}
	parts = append(parts, navLabel("›", plan.Next))
	return strings.Join(parts, " ")
}

func navLabel(s string, nav pagination.NavButton) string {
	if !nav.Enabled {
		return dimStyle.Render(s)
	}
	return s
}

// renderFooter prints the row caption, the number of markets shown on this
// page and the pagination bar.
func renderFooter(w io.Writer, st pagination.State, shown int, filtered bool, labels export.Labels) {
	fmt.Fprintln(w, dimStyle.Render(labels.Caption(st.Window(), st.Total)+"  ·  "+labels.MarketCount(shown, filtered)))
	fmt.Fprintln(w, renderPlan(st.Plan()))
}

// renderRecord prints the outcome of a delivered export.
func renderRecord(w io.Writer, rec domain.ExportRecord) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("Exported %d records to %s", rec.Records, rec.Location)))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("id=%s format=%s bytes=%d", rec.ID, rec.Format, rec.Bytes)))
}

// renderKV prints aligned key/value rows.
func renderKV(w io.Writer, rows [][2]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", headerStyle.Render(r[0]), r[1])
	}
}
