package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Summary holds period totals. Expenses are magnitudes, so Net is plain
// subtraction. All decimal fields are zero-valued for an empty input,
// never unset.
type Summary struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Net           decimal.Decimal
	Count         int
	IncomeCount   int
	ExpenseCount  int
}

// Summarize totals a transaction set in a single pass.
func Summarize(txs []Transaction) Summary {
	s := Summary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, tx := range txs {
		s.Count++
		if tx.Type == Income {
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
			s.IncomeCount++
		} else {
			s.TotalExpenses = s.TotalExpenses.Add(tx.Amount)
			s.ExpenseCount++
		}
	}
	s.Net = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}

// BreakdownRow is one group of a category or account rollup.
type BreakdownRow struct {
	Title string
	Total decimal.Decimal
	Count int
}

// breakdown groups by key in first-appearance order and then sorts by
// summed amount descending. The sort is stable, so equal totals keep
// their grouping order.
func breakdown(txs []Transaction, key func(Transaction) string) []BreakdownRow {
	index := make(map[string]int)
	rows := make([]BreakdownRow, 0)
	for _, tx := range txs {
		k := key(tx)
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, BreakdownRow{Title: k, Total: decimal.Zero})
		}
		rows[i].Total = rows[i].Total.Add(tx.Amount)
		rows[i].Count++
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total.GreaterThan(rows[j].Total)
	})
	return rows
}

// BreakdownByCategory sums expense transactions per category title.
func BreakdownByCategory(txs []Transaction) []BreakdownRow {
	expenses := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Type == Expense {
			expenses = append(expenses, tx)
		}
	}
	return breakdown(expenses, func(tx Transaction) string { return tx.Category })
}

// BreakdownAllByCategory sums all transactions per category title,
// income and expense alike.
func BreakdownAllByCategory(txs []Transaction) []BreakdownRow {
	return breakdown(txs, func(tx Transaction) string { return tx.Category })
}

// BreakdownByAccount sums all transactions per account title.
func BreakdownByAccount(txs []Transaction) []BreakdownRow {
	return breakdown(txs, func(tx Transaction) string { return tx.Account })
}

// TopN returns at most the n leading rows.
func TopN(rows []BreakdownRow, n int) []BreakdownRow {
	if n >= 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}

// TrendBucket is one calendar month of a trend series.
type TrendBucket struct {
	Month    string // YYYY-MM
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// MonthlyTrend produces n consecutive calendar-month buckets ending at
// ref's month, oldest first. Each bucket is summarized independently over
// the business date, using the same month boundaries the period resolver
// uses.
func MonthlyTrend(txs []Transaction, ref time.Time, n int) []TrendBucket {
	buckets := make([]TrendBucket, 0, n)
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := n - 1; i >= 0; i-- {
		start := first.AddDate(0, -i, 0)
		r := MonthRange(start.Year(), start.Month())
		s := Summarize(Filter(txs, r, ByDate))
		buckets = append(buckets, TrendBucket{
			Month:    start.Format("2006-01"),
			Income:   s.TotalIncome,
			Expenses: s.TotalExpenses,
			Net:      s.Net,
		})
	}
	return buckets
}
