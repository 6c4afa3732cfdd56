package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vbonduro/stokosor/internal/hierarchy"
)

const bom = "\uFEFF"

var csvHeader = []string{
	"Name",
	"Category",
	"Location",
	"Brand",
	"Model",
	"Serial number",
	"Barcode",
	"Purchase price",
	"Estimated value",
	"Purchase date",
	"Expiration date",
	"Warranty end",
	"Tags",
	"Notes",
}

// WriteCSV writes one semicolon-separated row per item of doc, prefixed by a
// UTF-8 byte order mark so spreadsheet tools pick the right encoding.
func WriteCSV(w io.Writer, doc *Document) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	locator := hierarchy.NewLocator(doc.Places, doc.Zones, doc.Containers)
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, it := range doc.Items {
		row := []string{
			it.Name,
			string(it.Category),
			locator.ItemPath(it),
			deref(it.Brand),
			deref(it.Model),
			deref(it.SerialNumber),
			deref(it.Barcode),
			amount(it.PurchasePrice),
			amount(it.EstimatedValue),
			deref(it.PurchaseDate),
			deref(it.ExpirationDate),
			deref(it.WarrantyDate),
			strings.Join(it.Tags, ", "),
			deref(it.Notes),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func amount(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
