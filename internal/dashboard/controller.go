// Package dashboard owns the filter and pagination state of one market view
// and turns user actions into fetches, display metadata and exports.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/alanyoungcy/marketdash/internal/domain"
	"github.com/alanyoungcy/marketdash/internal/export"
	"github.com/alanyoungcy/marketdash/internal/pagination"
	"github.com/alanyoungcy/marketdash/internal/platform/marketapi"
	"github.com/alanyoungcy/marketdash/internal/query"
)

// State is the lifecycle state of the table view.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Defaults for Config fields left zero.
const (
	DefaultPageSize = 50
	DefaultDebounce = 500 * time.Millisecond
)

// DefaultPageSizes is the allowed set of page sizes.
var DefaultPageSizes = []int{10, 20, 50, 100}

var (
	// ErrSuperseded is returned by a load whose response arrived after a
	// newer load had started. The response is discarded.
	ErrSuperseded = errors.New("dashboard: load superseded by a newer request")

	errNoExporter = errors.New("dashboard: export is not configured")
)

// MarketLister fetches one page of markets.
type MarketLister interface {
	ListMarkets(ctx context.Context, params marketapi.Params) (domain.MarketPage, error)
}

// Exporter produces an export artifact for a request.
type Exporter interface {
	Export(ctx context.Context, req domain.ExportRequest) (*domain.ExportArtifact, error)
}

var (
	_ MarketLister = (*marketapi.Client)(nil)
	_ Exporter     = (*export.Exporter)(nil)
)

// Config holds controller settings.
type Config struct {
	PageSizes       []int
	DefaultPageSize int
	Debounce        time.Duration
}

func (c Config) withDefaults() Config {
	if len(c.PageSizes) == 0 {
		c.PageSizes = DefaultPageSizes
	}
	if c.DefaultPageSize == 0 {
		c.DefaultPageSize = DefaultPageSize
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	return c
}

// Snapshot is a copy of the controller's view state.
type Snapshot struct {
	State      State
	Criteria   domain.FilterCriteria
	Filtered   bool
	Markets    []domain.Market
	Pagination pagination.State
	Window     pagination.Window
	Plan       pagination.ButtonPlan
	Err        error
	Exporting  bool
	ExportErr  error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger.With(slog.String("component", "dashboard")) }
}

// WithOnChange registers fn to receive a snapshot after every transition.
// fn is called without the controller's lock held.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// Controller is the dashboard state machine. Filter and pagination state
// change only through its methods. At most one fetch result is applied per
// load: a response is used only if the controller is still in the Loading
// state that issued it.
type Controller struct {
	lister   MarketLister
	exporter Exporter
	cfg      Config
	debounce *Debouncer
	onChange func(Snapshot)
	logger   *slog.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	criteria   domain.FilterCriteria
	page       int
	pageSize   int
	markets    []domain.Market
	pageInfo   pagination.State
	err        error
	exporting  bool
	exportErr  error
}

// New creates a Controller in the Idle state. exporter may be nil, in which
// case Export fails.
func New(lister MarketLister, exporter Exporter, cfg Config, opts ...Option) (*Controller, error) {
	cfg = cfg.withDefaults()
	if !slices.Contains(cfg.PageSizes, cfg.DefaultPageSize) {
		return nil, fmt.Errorf("dashboard: default page size %d not in %v: %w",
			cfg.DefaultPageSize, cfg.PageSizes, domain.ErrInvalidPageSize)
	}

	c := &Controller{
		lister:   lister,
		exporter: exporter,
		cfg:      cfg,
		debounce: NewDebouncer(cfg.Debounce),
		logger:   slog.Default().With(slog.String("component", "dashboard")),
		state:    StateIdle,
		page:     1,
		pageSize: cfg.DefaultPageSize,
		markets:  []domain.Market{},
	}
	c.pageInfo = pagination.NewState(1, c.pageSize, 0)
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// PageSizes returns the allowed page sizes.
func (c *Controller) PageSizes() []int {
	return slices.Clone(c.cfg.PageSizes)
}

// Load fetches the current page with the current criteria.
func (c *Controller) Load(ctx context.Context) error {
	return c.load(ctx, nil)
}

// Refresh reloads the current page.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.load(ctx, nil)
}

// ApplyFilters replaces the criteria, resets to page 1 and reloads.
func (c *Controller) ApplyFilters(ctx context.Context, criteria domain.FilterCriteria) error {
	return c.load(ctx, func() {
		c.criteria = criteria.Normalized()
		c.page = 1
	})
}

// ClearFilters drops all criteria, restores the default page size, resets to
// page 1 and reloads.
func (c *Controller) ClearFilters(ctx context.Context) error {
	return c.load(ctx, func() {
		c.criteria = domain.FilterCriteria{}
		c.pageSize = c.cfg.DefaultPageSize
		c.page = 1
	})
}

// GoToPage loads page n. Targets outside [1, totalPages] are ignored.
func (c *Controller) GoToPage(ctx context.Context, n int) error {
	c.mu.Lock()
	total := c.pageInfo.TotalPages
	c.mu.Unlock()
	if n < 1 || n > total {
		c.logger.Debug("page out of range", slog.Int("page", n), slog.Int("total_pages", total))
		return nil
	}
	return c.load(ctx, func() { c.page = n })
}

// NextPage follows the plan's next control when it is enabled.
func (c *Controller) NextPage(ctx context.Context) error {
	plan := c.Snapshot().Plan
	if !plan.Next.Enabled {
		return nil
	}
	return c.GoToPage(ctx, plan.Next.Target)
}

// PrevPage follows the plan's previous control when it is enabled.
func (c *Controller) PrevPage(ctx context.Context) error {
	plan := c.Snapshot().Plan
	if !plan.Prev.Enabled {
		return nil
	}
	return c.GoToPage(ctx, plan.Prev.Target)
}

// SetPageSize switches to an allowed page size, resets to page 1 and
// reloads.
func (c *Controller) SetPageSize(ctx context.Context, size int) error {
	if !slices.Contains(c.cfg.PageSizes, size) {
		return fmt.Errorf("dashboard: page size %d not in %v: %w", size, c.cfg.PageSizes, domain.ErrInvalidPageSize)
	}
	return c.load(ctx, func() {
		c.pageSize = size
		c.page = 1
	})
}

// ScheduleSearch debounces a search-driven ApplyFilters. Each call replaces
// the pending one; the filters are applied once input has been quiet for the
// debounce delay, and only if the search text is not blank.
func (c *Controller) ScheduleSearch(ctx context.Context, criteria domain.FilterCriteria) {
	c.debounce.Schedule(func() {
		if strings.TrimSpace(criteria.Search) == "" {
			return
		}
		err := c.ApplyFilters(ctx, criteria)
		if err != nil && !errors.Is(err, ErrSuperseded) {
			c.logger.Warn("debounced search failed", slog.String("error", err.Error()))
		}
	})
}

// Export serializes every record matching the current criteria. It has its
// own in-progress flag and leaves the table state untouched, including on
// failure.
func (c *Controller) Export(ctx context.Context, format domain.ExportFormat) (*domain.ExportArtifact, error) {
	if c.exporter == nil {
		return nil, errNoExporter
	}

	c.mu.Lock()
	if c.exporting {
		c.mu.Unlock()
		return nil, domain.ErrExportInProgress
	}
	c.exporting = true
	c.exportErr = nil
	req := domain.ExportRequest{Criteria: c.criteria, Format: format}
	c.mu.Unlock()
	c.notify()

	artifact, err := c.exporter.Export(ctx, req)

	c.mu.Lock()
	c.exporting = false
	c.exportErr = err
	c.mu.Unlock()
	c.notify()

	if err != nil {
		c.logger.Error("export failed", slog.String("format", string(format)), slog.String("error", err.Error()))
		return nil, err
	}
	return artifact, nil
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close cancels any pending debounced search.
func (c *Controller) Close() {
	c.debounce.Close()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:      c.state,
		Criteria:   c.criteria,
		Filtered:   !c.criteria.IsEmpty(),
		Markets:    slices.Clone(c.markets),
		Pagination: c.pageInfo,
		Window:     c.pageInfo.Window(),
		Plan:       c.pageInfo.Plan(),
		Err:        c.err,
		Exporting:  c.exporting,
		ExportErr:  c.exportErr,
	}
}

// load applies mutate and enters Loading under one lock, fetches, and
// applies the result only if no newer load has started meanwhile. When the
// reported total no longer reaches the requested page, the clamped page is
// fetched under the same generation so records always match the window.
func (c *Controller) load(ctx context.Context, mutate func()) error {
	c.mu.Lock()
	if mutate != nil {
		mutate()
	}
	c.generation++
	gen := c.generation
	c.state = StateLoading
	c.err = nil
	pageNum, pageSize := c.page, c.pageSize
	criteria := c.criteria
	c.mu.Unlock()
	c.notify()

	start := time.Now()
	for {
		params := query.Build(criteria, pageNum, pageSize)
		page, err := c.lister.ListMarkets(ctx, params)

		c.mu.Lock()
		if c.state != StateLoading || c.generation != gen {
			c.mu.Unlock()
			c.logger.Debug("discarding superseded response", slog.Uint64("generation", gen))
			return ErrSuperseded
		}
		if err != nil {
			c.state = StateErrored
			c.err = err
			c.mu.Unlock()
			c.notify()
			c.logger.Error("load failed",
				slog.String("params", params.Encode()),
				slog.String("error", err.Error()),
			)
			return err
		}

		st := pagination.NewState(pageNum, pageSize, page.Pagination.Total)
		if st.Page != pageNum {
			c.logger.Debug("page out of range after reload, fetching last page",
				slog.Int("requested", pageNum),
				slog.Int("page", st.Page),
			)
			pageNum = st.Page
			c.page = pageNum
			c.mu.Unlock()
			continue
		}

		c.markets = page.Markets
		if c.markets == nil {
			c.markets = []domain.Market{}
		}
		c.pageInfo = st
		c.page = st.Page
		c.state = StateLoaded
		c.mu.Unlock()
		c.notify()

		c.logger.Debug("page loaded",
			slog.String("params", params.Encode()),
			slog.Int("records", len(page.Markets)),
			slog.Int("total", page.Pagination.Total),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil
	}
}

func (c *Controller) notify() {
	if c.onChange == nil {
		return
	}
	c.onChange(c.Snapshot())
}
