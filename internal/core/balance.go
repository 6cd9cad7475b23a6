package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// BalancePoint is one step of a running-balance series.
type BalancePoint struct {
	Date        time.Time
	Balance     decimal.Decimal
	Transaction Transaction
}

// CurrentBalance folds the account's complete history: initial plus all
// income minus all expense. Callers pass the full transaction set of the
// account, never a period window, and the result does not depend on the
// order of the slice.
func CurrentBalance(initial decimal.Decimal, txs []Transaction) decimal.Decimal {
	balance := initial
	for _, tx := range txs {
		if tx.Type == Income {
			balance = balance.Add(tx.Amount)
		} else {
			balance = balance.Sub(tx.Amount)
		}
	}
	return balance
}

// BalanceHistory replays the windowed transactions in business-date order,
// starting from the account's initial balance. When the window starts
// mid-history the series reflects only in-window deltas layered on the
// static initial value, not the true balance at window start. That is the
// documented contract; do not "fix" it here.
func BalanceHistory(initial decimal.Decimal, txs []Transaction) []BalancePoint {
	ordered := make([]Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].ID < ordered[j].ID
	})

	points := make([]BalancePoint, 0, len(ordered))
	running := initial
	for _, tx := range ordered {
		if tx.Type == Income {
			running = running.Add(tx.Amount)
		} else {
			running = running.Sub(tx.Amount)
		}
		points = append(points, BalancePoint{
			Date:        tx.Date,
			Balance:     running,
			Transaction: tx,
		})
	}
	return points
}
