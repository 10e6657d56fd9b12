// Package dashboard drives the orders view for one profile at a time.
//
// A Controller owns an explicit State and turns each user event into a new
// state, a recomputed view and a Frame delivered to its sinks. Events on
// one controller are serialised; the Registry hands out one controller per
// profile, restoring its state from the preference store on first use.
package dashboard

import (
	"github.com/eshaffer321/orders-dashboard/internal/domain/filter"
	"github.com/eshaffer321/orders-dashboard/internal/domain/pager"
	"github.com/eshaffer321/orders-dashboard/internal/domain/preferences"
	"github.com/eshaffer321/orders-dashboard/internal/domain/sorter"
)

// State is everything the dashboard remembers between events.
type State struct {
	Query    filter.Query      `json:"query"`
	Sort     sorter.Spec       `json:"sort"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Theme    preferences.Theme `json:"theme"`
}

// DefaultState is the cleared dashboard with the given page size.
func DefaultState(pageSize int) State {
	if pageSize < 1 {
		pageSize = pager.DefaultPageSize
	}
	return State{
		Query:    filter.DefaultQuery(),
		Sort:     sorter.None(),
		Page:     1,
		PageSize: pageSize,
		Theme:    preferences.ThemeLight,
	}
}

// StateFrom converts stored preferences.
func StateFrom(p preferences.Preferences) State {
	return State{
		Query:    p.Query(),
		Sort:     p.Sort(),
		Page:     p.Page,
		PageSize: p.PageSize,
		Theme:    p.Theme,
	}
}

// Preferences converts the state to its stored form.
func (s State) Preferences() preferences.Preferences {
	q := s.Query
	if q.Status == "" {
		q.Status = filter.All
	}
	if q.Payment == "" {
		q.Payment = filter.All
	}
	dir := s.Sort.Direction
	if dir == "" {
		dir = sorter.Asc
	}
	return preferences.Preferences{
		Theme:    s.Theme,
		Search:   q.Search,
		Status:   q.Status,
		Payment:  q.Payment,
		SortKey:  string(s.Sort.Key),
		SortDir:  string(dir),
		Page:     s.Page,
		PageSize: s.PageSize,
	}
}

// viewValues is the stored form of everything but the theme.
func (s State) viewValues() map[string]string {
	all := s.Preferences().Encode()
	out := make(map[string]string, len(preferences.ViewKeys))
	for _, k := range preferences.ViewKeys {
		out[k] = all[k]
	}
	return out
}
