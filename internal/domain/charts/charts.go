// Package charts reduces order records into label/value series for the
// dashboard charts. Every reduction is pure and independent of input order
// except where noted.
package charts

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/orders-dashboard/internal/domain/orders"
)

// DefaultTopProducts is the number of products kept by TopProducts.
const DefaultTopProducts = 8

// Series is an index-aligned list of labels and values.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Labels)
}

// Set holds the three dashboard charts.
type Set struct {
	RevenueByDay    Series `json:"revenue_by_day"`
	StatusHistogram Series `json:"status_histogram"`
	TopProducts     Series `json:"top_products"`
}

// Build computes every chart over records.
func Build(records []orders.Order, topN int) Set {
	return Set{
		RevenueByDay:    RevenueByDay(records),
		StatusHistogram: StatusHistogram(records),
		TopProducts:     TopProducts(records, topN),
	}
}

// RevenueByDay sums the totals of paid orders per order date. Labels are
// sorted ascending, which is chronological for ISO dates.
func RevenueByDay(records []orders.Order) Series {
	sums := make(map[string]decimal.Decimal)
	for _, o := range records {
		if o.PaymentStatus != orders.PaymentPaid {
			continue
		}
		day := o.OrderDate
		if day == "" {
			day = orders.Unknown
		}
		sums[day] = sums[day].Add(o.Amount())
	}

	labels := make([]string, 0, len(sums))
	for day := range sums {
		labels = append(labels, day)
	}
	slices.Sort(labels)

	values := make([]float64, len(labels))
	for i, day := range labels {
		values[i] = sums[day].InexactFloat64()
	}
	return Series{Labels: labels, Values: values}
}

// StatusHistogram counts records per shipping status using the fixed
// label set. Records with any other shipping value are not counted.
func StatusHistogram(records []orders.Order) Series {
	counts := StatusCounts(records)

	labels := slices.Clone(orders.ShippingStatuses)
	values := make([]float64, len(labels))
	for i, status := range labels {
		values[i] = float64(counts[status])
	}
	return Series{Labels: labels, Values: values}
}

// StatusCounts returns the per-status counts behind StatusHistogram. The
// map always has an entry for each known status.
func StatusCounts(records []orders.Order) map[string]int {
	counts := make(map[string]int, len(orders.ShippingStatuses))
	for _, status := range orders.ShippingStatuses {
		counts[status] = 0
	}
	for _, o := range records {
		if _, ok := counts[o.Shipping]; ok {
			counts[o.Shipping]++
		}
	}
	return counts
}

// TopProducts sums totals per product name across all payment statuses
// and keeps the n largest. Products with equal revenue keep the order in
// which they were first seen.
func TopProducts(records []orders.Order, n int) Series {
	if n < 1 {
		n = DefaultTopProducts
	}

	type entry struct {
		name string
		sum  decimal.Decimal
	}
	var entries []entry
	index := make(map[string]int)

	for _, o := range records {
		name := o.ProductName
		if name == "" {
			name = orders.Unknown
		}
		i, ok := index[name]
		if !ok {
			i = len(entries)
			index[name] = i
			entries = append(entries, entry{name: name})
		}
		entries[i].sum = entries[i].sum.Add(o.Amount())
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		return b.sum.Cmp(a.sum)
	})
	if len(entries) > n {
		entries = entries[:n]
	}

	s := Series{
		Labels: make([]string, len(entries)),
		Values: make([]float64, len(entries)),
	}
	for i, e := range entries {
		s.Labels[i] = e.name
		s.Values[i] = e.sum.InexactFloat64()
	}
	return s
}
