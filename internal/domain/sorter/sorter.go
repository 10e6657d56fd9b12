// Package sorter orders records by a dashboard column.
//
// Descending order is produced by sorting ascending with a stable sort and
// reversing the result, so records that compare equal come out in reverse
// of their input order.
package sorter

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/eshaffer321/orders-dashboard/internal/domain/orders"
)

// Key names a sortable column. The zero value means unsorted.
type Key string

const (
	KeyNone          Key = ""
	KeyProductName   Key = "productName"
	KeyProductNumber Key = "ProductNumber"
	KeyPaymentStatus Key = "paymentStatus"
	KeyShipping      Key = "shipping"
	KeyOrderDate     Key = "orderDate"
	KeyQty           Key = "qty"
	KeyUnitPrice     Key = "unitPrice"
)

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

var keys = []Key{
	KeyProductName,
	KeyProductNumber,
	KeyPaymentStatus,
	KeyShipping,
	KeyOrderDate,
	KeyQty,
	KeyUnitPrice,
}

// Keys returns the sortable columns.
func Keys() []Key {
	return slices.Clone(keys)
}

// ParseKey validates a column name. The empty string parses as KeyNone.
func ParseKey(s string) (Key, bool) {
	if s == "" {
		return KeyNone, true
	}
	k := Key(s)
	if slices.Contains(keys, k) {
		return k, true
	}
	return KeyNone, false
}

// ParseDirection validates a direction.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case Asc, Desc:
		return Direction(s), true
	}
	return Asc, false
}

// Numeric reports whether the column compares as a number.
func (k Key) Numeric() bool {
	return k == KeyProductNumber || k == KeyQty || k == KeyUnitPrice
}

// Spec is the sort state. Direction is ignored when Key is KeyNone.
type Spec struct {
	Key       Key       `json:"key"`
	Direction Direction `json:"direction"`
}

// None is the unsorted spec.
func None() Spec {
	return Spec{Key: KeyNone, Direction: Asc}
}

// IsNone reports whether the spec leaves records in input order.
func (s Spec) IsNone() bool {
	return s.Key == KeyNone
}

// Toggle applies a column-header click: the active column flips
// direction, any other column becomes active in ascending order.
func (s Spec) Toggle(k Key) Spec {
	if k == KeyNone {
		return None()
	}
	if s.Key == k {
		if s.Direction == Desc {
			return Spec{Key: k, Direction: Asc}
		}
		return Spec{Key: k, Direction: Desc}
	}
	return Spec{Key: k, Direction: Asc}
}

// Sort returns a new slice ordered by spec. The input is not modified.
func Sort(records []orders.Order, spec Spec) []orders.Order {
	out := slices.Clone(records)
	if out == nil {
		out = []orders.Order{}
	}
	if spec.IsNone() {
		return out
	}

	compare := comparator(spec.Key)
	slices.SortStableFunc(out, compare)
	if spec.Direction == Desc {
		slices.Reverse(out)
	}
	return out
}

func comparator(k Key) func(a, b orders.Order) int {
	// Collators keep scratch buffers, so each sort gets its own.
	col := collate.New(language.Und, collate.Loose)
	text := func(a, b string) int { return col.CompareString(a, b) }

	if k.Numeric() {
		return func(a, b orders.Order) int {
			return compareNumeric(numericField(a, k), numericField(b, k), text)
		}
	}
	return func(a, b orders.Order) int {
		return text(textField(a, k), textField(b, k))
	}
}

type numeric struct {
	raw   string
	value float64
	ok    bool
}

// Values that are not finite numbers sort after all numbers and compare
// among themselves as text. Blank values count as 0.
func compareNumeric(a, b numeric, text func(a, b string) int) int {
	switch {
	case a.ok && b.ok:
		return cmp.Compare(a.value, b.value)
	case a.ok:
		return -1
	case b.ok:
		return 1
	default:
		return text(a.raw, b.raw)
	}
}

func numericField(o orders.Order, k Key) numeric {
	var raw string
	var v float64
	var ok bool
	switch k {
	case KeyProductNumber:
		raw = o.ProductNumber
		v, ok = o.ProductNumberValue()
	case KeyQty:
		raw = o.Qty.String()
		v, ok = o.Qty.Value()
	case KeyUnitPrice:
		raw = o.UnitPrice.String()
		v, ok = o.UnitPrice.Value()
	}
	// blank sorts as zero
	if !ok && strings.TrimSpace(raw) == "" {
		return numeric{raw: raw, ok: true}
	}
	return numeric{raw: raw, value: v, ok: ok}
}

func textField(o orders.Order, k Key) string {
	switch k {
	case KeyProductName:
		return o.ProductName
	case KeyPaymentStatus:
		return o.PaymentStatus
	case KeyShipping:
		return o.Shipping
	case KeyOrderDate:
		return o.OrderDate
	}
	return ""
}
