package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/eshaffer321/orders-dashboard/internal/application/dashboard"
)

var separator = strings.Repeat("-", 60)

// PrintReport prints a dashboard frame as plain text.
func PrintReport(w io.Writer, profileID string, f dashboard.Frame) {
	fmt.Fprintf(w, "orders-report: profile %s\n", profileID)
	fmt.Fprintln(w, separator)

	if f.Cards != nil {
		fmt.Fprintf(w, "Delivered=%d Pending=%d Processing=%d Declined=%d\n",
			f.Cards.Delivered, f.Cards.Pending, f.Cards.Processing, f.Cards.Declined)
	}
	if len(f.Chips) > 0 {
		labels := make([]string, len(f.Chips))
		for i, c := range f.Chips {
			labels[i] = c.Label
		}
		fmt.Fprintf(w, "Filters: %s\n", strings.Join(labels, " | "))
	}
	if s := f.State.Sort; !s.IsNone() {
		fmt.Fprintf(w, "Sort: %s %s\n", s.Key, s.Direction)
	}
	fmt.Fprintln(w)

	PrintTable(w, f)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "%s | %s\n", f.Summary, f.Pagination.Label)

	if f.Charts != nil && f.Charts.TopProducts.Len() > 0 {
		fmt.Fprintln(w, "\nTop products:")
		for i, label := range f.Charts.TopProducts.Labels {
			fmt.Fprintf(w, "  %d. %s (%.2f)\n", i+1, label, f.Charts.TopProducts.Values[i])
		}
	}
}

// PrintTable prints the frame's page rows, or the empty message.
func PrintTable(w io.Writer, f dashboard.Frame) {
	if len(f.Table.Items) == 0 {
		msg := f.Empty
		if msg == "" {
			msg = dashboard.EmptyMessage
		}
		fmt.Fprintln(w, msg)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNUMBER\tQTY\tUNIT PRICE\tPAYMENT\tSTATUS\tDATE")
	for _, o := range f.Table.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ProductName, o.ProductNumber, o.Qty, o.UnitPrice,
			o.PaymentStatus, o.Shipping, o.OrderDate)
	}
	_ = tw.Flush()
}
