package dashboard

import (
	"fmt"

	"github.com/eshaffer321/orders-dashboard/internal/domain/charts"
	"github.com/eshaffer321/orders-dashboard/internal/domain/filter"
	"github.com/eshaffer321/orders-dashboard/internal/domain/orders"
	"github.com/eshaffer321/orders-dashboard/internal/domain/pager"
)

// Scope says which parts of the dashboard a frame refreshes.
type Scope string

const (
	// ScopeFull refreshes every part.
	ScopeFull Scope = "full"
	// ScopePage refreshes the table, summary and pagination only.
	ScopePage Scope = "page"
)

// EmptyMessage is shown in place of table rows when nothing matches.
const EmptyMessage = "No matching orders found."

// Frame is one render of the dashboard. Cards, Charts and Chips are nil
// on page frames.
type Frame struct {
	Scope      Scope                      `json:"scope"`
	Table      pager.Window[orders.Order] `json:"table"`
	Empty      string                     `json:"empty,omitempty"`
	Pagination Pagination                 `json:"pagination"`
	Summary    string                     `json:"summary"`
	Cards      *StatusCards               `json:"cards"`
	Charts     *charts.Set                `json:"charts"`
	Chips      []filter.Chip              `json:"chips"`
	State      State                      `json:"state"`
}

// Pagination drives the previous/next controls.
type Pagination struct {
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	PageSize   int    `json:"page_size"`
	HasPrev    bool   `json:"has_prev"`
	HasNext    bool   `json:"has_next"`
	Label      string `json:"label"`
}

// StatusCards holds the per-status counts over the whole view.
type StatusCards struct {
	Delivered  int `json:"delivered"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Declined   int `json:"declined"`
}

// Summary describes the visible window relative to the view and the full
// record set.
func Summary(w pager.Window[orders.Order], total int) string {
	if w.Total == 0 {
		return fmt.Sprintf("Showing 0 of %d orders", total)
	}
	return fmt.Sprintf("Showing %d-%d of %d (Total: %d)", w.Start, w.End, w.Total, total)
}

func paginationFor(w pager.Window[orders.Order]) Pagination {
	return Pagination{
		Page:       w.Page,
		TotalPages: w.TotalPages,
		PageSize:   w.PageSize,
		HasPrev:    w.HasPrev,
		HasNext:    w.HasNext,
		Label:      fmt.Sprintf("Page %d / %d", w.Page, w.TotalPages),
	}
}

func cardsFor(view []orders.Order) *StatusCards {
	counts := charts.StatusCounts(view)
	return &StatusCards{
		Delivered:  counts[orders.ShippingDelivered],
		Pending:    counts[orders.ShippingPending],
		Processing: counts[orders.ShippingProcessing],
		Declined:   counts[orders.ShippingDeclined],
	}
}
