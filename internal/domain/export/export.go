// Package export writes order rows to downloadable files.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/eshaffer321/orders-dashboard/internal/domain/orders"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name. The empty string means CSV.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(s)) {
	case "", FormatCSV:
		return FormatCSV, true
	case FormatXLSX:
		return FormatXLSX, true
	}
	return "", false
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv;charset=utf-8"
}

// Header is the column row written by every format.
var Header = []string{"Product Name", "Product Number", "Payment", "Status"}

// SheetName is the worksheet used by XLSX exports.
const SheetName = "Orders"

// Filename returns orders-<YYYY-MM-DD>.<ext> for the UTC date of now.
func Filename(f Format, now time.Time) string {
	return fmt.Sprintf("orders-%s.%s", now.UTC().Format("2006-01-02"), f)
}

// Write encodes rows in format f.
func Write(w io.Writer, f Format, rows []orders.Order) error {
	switch f {
	case FormatCSV:
		_, err := io.WriteString(w, CSV(rows))
		return err
	case FormatXLSX:
		return WriteXLSX(w, rows)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// CSV renders rows as CSV text: lines separated by "\n", no trailing
// newline, and fields quoted only when they contain a comma, a double
// quote or a newline.
func CSV(rows []orders.Order) string {
	var b strings.Builder
	b.WriteString(strings.Join(Header, ","))
	for _, r := range rows {
		b.WriteByte('\n')
		for i, field := range record(r) {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCSV(field))
		}
	}
	return b.String()
}

func escapeCSV(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func record(o orders.Order) []string {
	return []string{o.ProductName, o.ProductNumber, o.PaymentStatus, o.Shipping}
}

// WriteXLSX writes rows to a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []orders.Order) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := record(r)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
