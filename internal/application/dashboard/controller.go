package dashboard

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/eshaffer321/orders-dashboard/internal/domain/charts"
	"github.com/eshaffer321/orders-dashboard/internal/domain/filter"
	"github.com/eshaffer321/orders-dashboard/internal/domain/orders"
	"github.com/eshaffer321/orders-dashboard/internal/domain/pager"
	"github.com/eshaffer321/orders-dashboard/internal/domain/preferences"
	"github.com/eshaffer321/orders-dashboard/internal/domain/sorter"
	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/storage"
	"github.com/eshaffer321/orders-dashboard/internal/observability"
)

// Registry defaults.
const (
	DefaultIdleTTL     = 30 * time.Minute
	DefaultMaxProfiles = 10000
)

// Options configures controllers and the registry that owns them.
type Options struct {
	DefaultPageSize int
	TopProducts     int
	Sinks           []Sink
	Metrics         *observability.Metrics
	Logger          *slog.Logger

	// IdleTTL and MaxProfiles bound the registry. Zero uses the defaults.
	IdleTTL     time.Duration
	MaxProfiles int
}

func (o Options) withDefaults() Options {
	if o.DefaultPageSize < 1 {
		o.DefaultPageSize = pager.DefaultPageSize
	}
	if o.TopProducts < 1 {
		o.TopProducts = charts.DefaultTopProducts
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.IdleTTL <= 0 {
		o.IdleTTL = DefaultIdleTTL
	}
	if o.MaxProfiles < 1 {
		o.MaxProfiles = DefaultMaxProfiles
	}
	return o
}

// Controller is the view controller for one profile.
type Controller struct {
	mu        sync.Mutex
	profileID string
	records   []orders.Order
	prefs     storage.PreferenceRepository
	opts      Options
	logger    *slog.Logger

	state State
	view  []orders.Order
}

// NewController restores the profile's state from prefs and computes the
// initial view. A failing preference store leaves the defaults in place.
// records are shared and never modified.
func NewController(ctx context.Context, profileID string, records []orders.Order, prefs storage.PreferenceRepository, opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		profileID: profileID,
		records:   records,
		prefs:     prefs,
		opts:      opts,
		logger:    opts.Logger.With("profile", profileID),
		state:     DefaultState(opts.DefaultPageSize),
	}

	c.restore(ctx)
	c.recompute(observability.TriggerQuery)
	return c
}

// ProfileID returns the profile the controller is bound to.
func (c *Controller) ProfileID() string {
	return c.profileID
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot renders the current full frame without changing anything.
// The frame is returned but not delivered to sinks.
func (c *Controller) Snapshot() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame(ScopeFull)
}

// SetQuery replaces the whole query.
func (c *Controller) SetQuery(ctx context.Context, q filter.Query) Frame {
	return c.updateQuery(ctx, func(filter.Query) filter.Query { return q })
}

// SetSearch changes the search text.
func (c *Controller) SetSearch(ctx context.Context, search string) Frame {
	return c.updateQuery(ctx, func(q filter.Query) filter.Query {
		q.Search = search
		return q
	})
}

// SetStatus changes the shipping status selection.
func (c *Controller) SetStatus(ctx context.Context, status string) Frame {
	return c.updateQuery(ctx, func(q filter.Query) filter.Query {
		q.Status = status
		return q
	})
}

// SetPayment changes the payment status selection.
func (c *Controller) SetPayment(ctx context.Context, payment string) Frame {
	return c.updateQuery(ctx, func(q filter.Query) filter.Query {
		q.Payment = payment
		return q
	})
}

// RemoveChip clears the restriction behind one filter chip.
func (c *Controller) RemoveChip(ctx context.Context, t filter.ChipType) Frame {
	return c.updateQuery(ctx, func(q filter.Query) filter.Query {
		return q.Without(t)
	})
}

func (c *Controller) updateQuery(ctx context.Context, fn func(filter.Query) filter.Query) Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := fn(c.state.Query)
	if q.Status == "" {
		q.Status = filter.All
	}
	if q.Payment == "" {
		q.Payment = filter.All
	}
	c.state.Query = q
	c.state.Page = 1

	c.recompute(observability.TriggerQuery)
	f := c.emit(ScopeFull)
	c.persistView(ctx)
	return f
}

// SetSort applies a sort spec directly.
func (c *Controller) SetSort(ctx context.Context, spec sorter.Spec) Frame {
	return c.updateSort(ctx, func(sorter.Spec) sorter.Spec { return spec })
}

// ToggleSort applies a column header click.
func (c *Controller) ToggleSort(ctx context.Context, key sorter.Key) Frame {
	return c.updateSort(ctx, func(s sorter.Spec) sorter.Spec { return s.Toggle(key) })
}

func (c *Controller) updateSort(ctx context.Context, fn func(sorter.Spec) sorter.Spec) Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	spec := fn(c.state.Sort)
	if spec.Direction != sorter.Desc {
		spec.Direction = sorter.Asc
	}
	c.state.Sort = spec
	c.state.Page = 1

	c.recompute(observability.TriggerSort)
	f := c.emit(ScopeFull)
	c.persistView(ctx)
	return f
}

// SetPage jumps to page n, clamped into range.
func (c *Controller) SetPage(ctx context.Context, n int) Frame {
	return c.updatePage(ctx, func(s *State) { s.Page = n })
}

// NextPage advances one page, stopping at the last.
func (c *Controller) NextPage(ctx context.Context) Frame {
	return c.updatePage(ctx, func(s *State) { s.Page++ })
}

// PrevPage goes back one page, stopping at the first.
func (c *Controller) PrevPage(ctx context.Context) Frame {
	return c.updatePage(ctx, func(s *State) { s.Page-- })
}

// SetPageSize changes the rows per page and returns to page 1. Sizes
// below 1 use the default.
func (c *Controller) SetPageSize(ctx context.Context, size int) Frame {
	return c.updatePage(ctx, func(s *State) {
		if size < 1 {
			size = c.opts.DefaultPageSize
		}
		s.PageSize = size
		s.Page = 1
	})
}

func (c *Controller) updatePage(ctx context.Context, fn func(*State)) Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	fn(&c.state)
	c.state.Page = pager.Clamp(c.state.Page, len(c.view), c.state.PageSize)

	f := c.emit(ScopePage)
	c.opts.Metrics.ObserveRecompute(observability.TriggerPage, time.Since(start))
	c.persistView(ctx)
	return f
}

// ClearAll resets the query, sort and pagination and forgets them in the
// preference store. The theme is kept.
func (c *Controller) ClearAll(ctx context.Context) Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	theme := c.state.Theme
	c.state = DefaultState(c.opts.DefaultPageSize)
	c.state.Theme = theme

	if err := c.prefs.DeletePreferences(ctx, c.profileID, preferences.ViewKeys...); err != nil {
		c.logger.Warn("failed to clear preferences", "error", err)
		c.opts.Metrics.PreferenceError("delete")
	}

	c.recompute(observability.TriggerClear)
	return c.emit(ScopeFull)
}

// SetTheme stores the colour scheme. Nothing is re-rendered.
func (c *Controller) SetTheme(ctx context.Context, t preferences.Theme) preferences.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Theme = t
	c.persistTheme(ctx)
	return t
}

// ToggleTheme flips between light and dark.
func (c *Controller) ToggleTheme(ctx context.Context) preferences.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Theme = c.state.Theme.Toggle()
	c.persistTheme(ctx)
	return c.state.Theme
}

// ExportRows returns the rows an export should contain: the current view,
// or every record when the view is empty.
func (c *Controller) ExportRows() []orders.Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.view) > 0 {
		return slices.Clone(c.view)
	}
	return slices.Clone(c.records)
}

// restore loads stored preferences into the state. Missing page size
// falls back to the configured default rather than the built-in one.
func (c *Controller) restore(ctx context.Context) {
	values, err := c.prefs.GetPreferences(ctx, c.profileID)
	if err != nil {
		c.logger.Warn("failed to load preferences, using defaults", "error", err)
		c.opts.Metrics.PreferenceError("load")
		return
	}
	if len(values) == 0 {
		return
	}

	state := StateFrom(preferences.Parse(values))
	if _, ok := values[preferences.KeyPageSize]; !ok {
		state.PageSize = c.opts.DefaultPageSize
	}
	c.state = state
	c.logger.Debug("restored preferences", "keys", len(values))
}

// recompute rebuilds the view from the records and clamps the page.
// Callers hold c.mu.
func (c *Controller) recompute(trigger string) {
	start := time.Now()
	filtered := filter.Apply(c.records, c.state.Query)
	c.view = sorter.Sort(filtered, c.state.Sort)
	c.state.Page = pager.Clamp(c.state.Page, len(c.view), c.state.PageSize)
	c.opts.Metrics.ObserveRecompute(trigger, time.Since(start))
}

// frame renders the current state. Callers hold c.mu.
func (c *Controller) frame(scope Scope) Frame {
	w := pager.Paginate(c.view, c.state.Page, c.state.PageSize)
	f := Frame{
		Scope:      scope,
		Table:      w,
		Pagination: paginationFor(w),
		Summary:    Summary(w, len(c.records)),
		State:      c.state,
	}
	if w.Total == 0 {
		f.Empty = EmptyMessage
	}

	if scope == ScopeFull {
		set := charts.Build(c.view, c.opts.TopProducts)
		f.Charts = &set
		f.Cards = cardsFor(c.view)
		f.Chips = c.state.Query.Chips()
	}
	return f
}

// emit renders and delivers a frame to every sink. Callers hold c.mu.
func (c *Controller) emit(scope Scope) Frame {
	f := c.frame(scope)
	for _, s := range c.opts.Sinks {
		s.Render(c.profileID, f)
	}
	return f
}

func (c *Controller) persistView(ctx context.Context) {
	if err := c.prefs.SavePreferences(ctx, c.profileID, c.state.viewValues()); err != nil {
		c.logger.Warn("failed to save preferences", "error", err)
		c.opts.Metrics.PreferenceError("save")
	}
}

func (c *Controller) persistTheme(ctx context.Context) {
	values := map[string]string{preferences.KeyTheme: string(c.state.Theme)}
	if err := c.prefs.SavePreferences(ctx, c.profileID, values); err != nil {
		c.logger.Warn("failed to save theme", "error", err)
		c.opts.Metrics.PreferenceError("save")
	}
}
