// Package filter evaluates order records against the dashboard query.
package filter

import (
	"strings"

	"github.com/eshaffer321/orders-dashboard/internal/domain/orders"
)

// All disables a status or payment restriction.
const All = "all"

// Query is the combination of search text and status/payment selections.
type Query struct {
	Search  string `json:"search"`
	Status  string `json:"status"`
	Payment string `json:"payment"`
}

// DefaultQuery matches every record.
func DefaultQuery() Query {
	return Query{Status: All, Payment: All}
}

// Normalize trims and lower-cases the search text and defaults empty
// selections to All.
func (q Query) Normalize() Query {
	q.Search = strings.ToLower(strings.TrimSpace(q.Search))
	if q.Status == "" {
		q.Status = All
	}
	if q.Payment == "" {
		q.Payment = All
	}
	return q
}

// IsDefault reports whether the query restricts nothing.
func (q Query) IsDefault() bool {
	n := q.Normalize()
	return n.Search == "" && n.Status == All && n.Payment == All
}

// Matches reports whether the order satisfies all three predicates.
func Matches(o orders.Order, q Query) bool {
	q = q.Normalize()
	return matchesSearch(o, q.Search) &&
		(q.Status == All || o.Shipping == q.Status) &&
		(q.Payment == All || o.PaymentStatus == q.Payment)
}

// Apply returns the records that match q, in their original order.
// The input slice is not modified.
func Apply(records []orders.Order, q Query) []orders.Order {
	q = q.Normalize()
	out := make([]orders.Order, 0, len(records))
	for _, o := range records {
		if Matches(o, q) {
			out = append(out, o)
		}
	}
	return out
}

// search is already normalized
func matchesSearch(o orders.Order, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(o.ProductName), search) ||
		strings.Contains(strings.ToLower(o.ProductNumber), search)
}
