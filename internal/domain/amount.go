package domain

import "github.com/shopspring/decimal"

// StoredAmount returns d as the store will read it back. Amounts live in
// REAL columns, so anything beyond float64 precision is rounded away here
// rather than on the next fetch.
func StoredAmount(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	stored := decimal.NewFromFloat(d.InexactFloat64())
	return &stored
}
