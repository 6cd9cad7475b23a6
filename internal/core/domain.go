// Package core implements the balance and period aggregation engine:
// period keyword resolution, derived account balances and time-bucketed
// income/expense rollups. Everything here is pure computation over
// in-memory transaction sets; the package has no storage or HTTP
// dependencies and identical inputs always produce identical outputs.
package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type tags a transaction as money in or money out.
type Type string

const (
	Income  Type = "income"
	Expense Type = "expense"
)

// Transaction is the engine's view of one ledger record. Handlers map
// storage rows into this shape before calling in; amounts are positive
// magnitudes with the sign carried by Type.
type Transaction struct {
	ID        uint
	Title     string
	Type      Type
	Amount    decimal.Decimal
	Category  string
	Account   string
	Date      time.Time
	CreatedAt time.Time
}

// TimeField selects which of a transaction's two timestamps a filter
// applies to. The business date and the creation time are not
// interchangeable: dashboards and summaries bucket by creation time,
// explicit date-range filters and balance history by business date.
type TimeField int

const (
	ByDate TimeField = iota
	ByCreatedAt
)

// Filter keeps the transactions whose selected timestamp falls inside r,
// comparing day precision only.
func Filter(txs []Transaction, r DateRange, field TimeField) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		ts := tx.Date
		if field == ByCreatedAt {
			ts = tx.CreatedAt
		}
		if r.Contains(ts) {
			out = append(out, tx)
		}
	}
	return out
}
