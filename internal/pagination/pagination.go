// Package pagination derives display metadata from a page number, a page
// size and a total count: the visible row window and the page-button layout.
// Everything here is pure; results are recomputed on every render.
package pagination

// WindowRadius is how many page numbers are shown on each side of the current
// page. With first/last buttons and two ellipses it bounds the control to at
// most nine numbered slots whatever the page count.
const WindowRadius = 2

// State is the pagination state of a loaded page.
type State struct {
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	HasMore    bool
}

// TotalPages returns ceil(total/pageSize) with a floor of one page, so an
// empty result still has a page 1.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return max(1, (total+pageSize-1)/pageSize)
}

// Clamp forces page into [1, totalPages].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	return min(max(page, 1), totalPages)
}

// NewState builds a State for the given cursor and total, clamping page into
// the valid range.
func NewState(page, pageSize, total int) State {
	if total < 0 {
		total = 0
	}
	totalPages := TotalPages(total, pageSize)
	page = Clamp(page, totalPages)
	return State{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

// Window is the 1-based, inclusive range of rows visible on a page. Both ends
// are zero when there is nothing to show.
type Window struct {
	Start int
	End   int
}

// ComputeWindow returns start=(page-1)*pageSize+1 and
// end=min(page*pageSize, total), both clamped to be non-negative.
func ComputeWindow(page, pageSize, total int) Window {
	if total <= 0 || pageSize <= 0 {
		return Window{}
	}
	start := max((page-1)*pageSize+1, 0)
	end := max(min(page*pageSize, total), 0)
	return Window{Start: start, End: end}
}

// Window returns the visible row range for s.
func (s State) Window() Window {
	return ComputeWindow(s.Page, s.PageSize, s.Total)
}

// ButtonKind distinguishes page numbers from ellipsis markers.
type ButtonKind int

const (
	ButtonPage ButtonKind = iota
	ButtonEllipsis
)

// Button is one slot of the page-number control.
type Button struct {
	Kind    ButtonKind
	Page    int
	Current bool
}

// NavButton is the previous or next control.
type NavButton struct {
	Target  int
	Enabled bool
}

// ButtonPlan is the ordered layout of the page control.
type ButtonPlan struct {
	Prev    NavButton
	Buttons []Button
	Next    NavButton
}

// BuildButtonPlan lays out the page control for page out of totalPages.
// Pages in [page-2, page+2] are shown; page 1 and the last page are always
// reachable, separated from the window by an ellipsis when there is a gap of
// more than one page. page is clamped into range first.
func BuildButtonPlan(page, totalPages int) ButtonPlan {
	if totalPages < 1 {
		totalPages = 1
	}
	page = Clamp(page, totalPages)

	plan := ButtonPlan{
		Prev:    NavButton{Target: page - 1, Enabled: page > 1},
		Next:    NavButton{Target: page + 1, Enabled: page < totalPages},
		Buttons: make([]Button, 0, 2*WindowRadius+5),
	}

	addPage := func(n int) {
		plan.Buttons = append(plan.Buttons, Button{Kind: ButtonPage, Page: n, Current: n == page})
	}
	addEllipsis := func() {
		plan.Buttons = append(plan.Buttons, Button{Kind: ButtonEllipsis})
	}

	start := max(1, page-WindowRadius)
	end := min(totalPages, page+WindowRadius)

	if start > 1 {
		addPage(1)
		if start > 2 {
			addEllipsis()
		}
	}
	for n := start; n <= end; n++ {
		addPage(n)
	}
	if end < totalPages {
		if end < totalPages-1 {
			addEllipsis()
		}
		addPage(totalPages)
	}
	return plan
}

// Plan returns the button plan for s.
func (s State) Plan() ButtonPlan {
	return BuildButtonPlan(s.Page, s.TotalPages)
}
