// Package orders defines the order record the dashboard works over.
//
// Records are supplied by the record store and never mutated by the
// pipeline. The only derived value is the order total, which is computed
// leniently: anything that is not a finite number counts as zero.
package orders

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Shipping statuses shown on the status cards and the status chart.
const (
	ShippingDelivered  = "Delivered"
	ShippingPending    = "Pending"
	ShippingProcessing = "Processing"
	ShippingDeclined   = "Declined"
)

// PaymentPaid is the only payment status that counts as revenue.
const PaymentPaid = "Paid"

// Unknown labels records whose grouping key is missing.
const Unknown = "Unknown"

// ShippingStatuses lists the shipping statuses in display order.
var ShippingStatuses = []string{
	ShippingDelivered,
	ShippingPending,
	ShippingProcessing,
	ShippingDeclined,
}

// Order is a single order row.
type Order struct {
	ProductName   string `json:"productName" yaml:"productName"`
	ProductNumber string `json:"ProductNumber" yaml:"ProductNumber"`
	PaymentStatus string `json:"paymentStatus" yaml:"paymentStatus"`
	Shipping      string `json:"shipping" yaml:"shipping"`
	OrderDate     string `json:"orderDate" yaml:"orderDate"`
	Qty           Number `json:"qty" yaml:"qty"`
	UnitPrice     Number `json:"unitPrice" yaml:"unitPrice"`
}

// UnmarshalJSON accepts ProductNumber as either a string or a number.
func (o *Order) UnmarshalJSON(data []byte) error {
	type alias Order
	aux := struct {
		*alias
		ProductNumber json.RawMessage `json:"ProductNumber"`
	}{alias: (*alias)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var n Number
	_ = n.UnmarshalJSON(aux.ProductNumber)
	o.ProductNumber = n.raw
	return nil
}

// Amount returns qty × unitPrice as a decimal.
// Non-finite or missing inputs are treated as 0.
func (o Order) Amount() decimal.Decimal {
	qty, price := o.Qty.Float(), o.UnitPrice.Float()
	if qty == 0 || price == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price))
}

// Total returns the order total as a float.
func (o Order) Total() float64 {
	return o.Amount().InexactFloat64()
}

// ProductNumberValue parses the product number as a number.
// ok is false when the value is empty or not a finite number.
func (o Order) ProductNumberValue() (float64, bool) {
	return parseFinite(o.ProductNumber)
}

// Number is a lenient numeric field. It accepts JSON numbers, numeric
// strings and null; anything else decodes to a value that Float reports
// as 0.
type Number struct {
	raw string
}

// NewNumber wraps a float.
func NewNumber(v float64) Number {
	return Number{raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

// ParseNumber wraps a raw textual value without validating it.
func ParseNumber(s string) Number {
	return Number{raw: s}
}

// Float returns the value, or 0 when it is missing or not finite.
func (n Number) Float() float64 {
	v, ok := parseFinite(n.raw)
	if !ok {
		return 0
	}
	return v
}

// Value returns the value and whether it is a finite number.
func (n Number) Value() (float64, bool) {
	return parseFinite(n.raw)
}

// String returns the raw value as supplied.
func (n Number) String() string {
	return n.raw
}

// IsZero reports whether the field was absent.
func (n Number) IsZero() bool {
	return n.raw == ""
}

// UnmarshalJSON accepts numbers, strings and null.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		n.raw = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			n.raw = ""
			return nil
		}
		n.raw = s
	default:
		n.raw = string(data)
	}
	return nil
}

// MarshalJSON writes the value as a JSON number, or null when it is not one.
func (n Number) MarshalJSON() ([]byte, error) {
	v, ok := parseFinite(n.raw)
	if !ok {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// UnmarshalYAML accepts any scalar.
func (n *Number) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		n.raw = ""
		return nil
	}
	n.raw = s
	return nil
}

func parseFinite(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
