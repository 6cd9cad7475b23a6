package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if !s.TotalIncome.Equal(decimal.Zero) || !s.TotalExpenses.Equal(decimal.Zero) || !s.Net.Equal(decimal.Zero) {
		t.Fatalf("expected all-zero summary, got %+v", s)
	}
	if s.Count != 0 || s.IncomeCount != 0 || s.ExpenseCount != 0 {
		t.Fatalf("expected zero counts, got %+v", s)
	}
}

func TestSummarize(t *testing.T) {
	txs := []Transaction{
		{Type: Income, Amount: dec("100.00")},
		{Type: Income, Amount: dec("25.50")},
		{Type: Expense, Amount: dec("40.25")},
	}
	s := Summarize(txs)
	if !s.TotalIncome.Equal(dec("125.50")) {
		t.Errorf("income: got %s, want 125.50", s.TotalIncome)
	}
	if !s.TotalExpenses.Equal(dec("40.25")) {
		t.Errorf("expenses: got %s, want 40.25", s.TotalExpenses)
	}
	if !s.Net.Equal(dec("85.25")) {
		t.Errorf("net: got %s, want 85.25", s.Net)
	}
	if s.Count != 3 || s.IncomeCount != 2 || s.ExpenseCount != 1 {
		t.Errorf("counts: got %d/%d/%d, want 3/2/1", s.Count, s.IncomeCount, s.ExpenseCount)
	}
}

func TestBreakdownByCategory(t *testing.T) {
	txs := []Transaction{
		{Type: Expense, Amount: dec("10.00"), Category: "food"},
		{Type: Expense, Amount: dec("70.00"), Category: "rent"},
		{Type: Expense, Amount: dec("15.00"), Category: "food"},
		{Type: Income, Amount: dec("999.00"), Category: "salary"}, // income is excluded
	}
	rows := BreakdownByCategory(txs)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Title != "rent" || !rows[0].Total.Equal(dec("70.00")) || rows[0].Count != 1 {
		t.Errorf("row 0: got %+v", rows[0])
	}
	if rows[1].Title != "food" || !rows[1].Total.Equal(dec("25.00")) || rows[1].Count != 2 {
		t.Errorf("row 1: got %+v", rows[1])
	}
}

func TestBreakdownStableTies(t *testing.T) {
	txs := []Transaction{
		{Type: Expense, Amount: dec("20.00"), Category: "books"},
		{Type: Expense, Amount: dec("20.00"), Category: "games"},
		{Type: Expense, Amount: dec("20.00"), Category: "travel"},
	}
	rows := BreakdownByCategory(txs)
	want := []string{"books", "games", "travel"}
	for i, w := range want {
		if rows[i].Title != w {
			t.Fatalf("tie order broken: got %v", rows)
		}
	}
}

func TestBreakdownByAccountIncludesBothTypes(t *testing.T) {
	txs := []Transaction{
		{Type: Income, Amount: dec("100.00"), Account: "checking"},
		{Type: Expense, Amount: dec("30.00"), Account: "checking"},
		{Type: Expense, Amount: dec("5.00"), Account: "cash"},
	}
	rows := BreakdownByAccount(txs)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Title != "checking" || !rows[0].Total.Equal(dec("130.00")) {
		t.Errorf("row 0: got %+v", rows[0])
	}
}

func TestTopN(t *testing.T) {
	rows := []BreakdownRow{{Title: "a"}, {Title: "b"}, {Title: "c"}}
	if got := TopN(rows, 2); len(got) != 2 {
		t.Errorf("TopN(2): got %d rows", len(got))
	}
	if got := TopN(rows, 5); len(got) != 3 {
		t.Errorf("TopN(5): got %d rows", len(got))
	}
}

func TestFilterByField(t *testing.T) {
	march := DateRange{Start: date(2024, 3, 1), End: date(2024, 3, 31)}
	tx := Transaction{
		Type:      Expense,
		Amount:    dec("10.00"),
		Date:      date(2024, 3, 10),
		CreatedAt: time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC),
	}

	if got := Filter([]Transaction{tx}, march, ByDate); len(got) != 1 {
		t.Error("ByDate should match the business date")
	}
	if got := Filter([]Transaction{tx}, march, ByCreatedAt); len(got) != 0 {
		t.Error("ByCreatedAt should use the creation timestamp, not the business date")
	}
}

func TestMonthlyTrend(t *testing.T) {
	ref := date(2024, 3, 15)
	txs := []Transaction{
		{Type: Income, Amount: dec("100.00"), Date: date(2024, 3, 5)},
		{Type: Expense, Amount: dec("40.00"), Date: date(2024, 2, 20)},
		{Type: Expense, Amount: dec("1.00"), Date: date(2023, 9, 30)}, // outside the window
	}

	buckets := MonthlyTrend(txs, ref, 6)
	if len(buckets) != 6 {
		t.Fatalf("expected exactly 6 buckets, got %d", len(buckets))
	}

	wantMonths := []string{"2023-10", "2023-11", "2023-12", "2024-01", "2024-02", "2024-03"}
	for i, w := range wantMonths {
		if buckets[i].Month != w {
			t.Fatalf("bucket %d: got %s, want %s", i, buckets[i].Month, w)
		}
	}

	if !buckets[4].Expenses.Equal(dec("40.00")) || !buckets[4].Net.Equal(dec("-40.00")) {
		t.Errorf("february bucket: got %+v", buckets[4])
	}
	if !buckets[5].Income.Equal(dec("100.00")) {
		t.Errorf("march bucket: got %+v", buckets[5])
	}
	// empty months report zeros, not nulls
	if !buckets[0].Income.Equal(decimal.Zero) || !buckets[0].Expenses.Equal(decimal.Zero) {
		t.Errorf("empty bucket should be zero: %+v", buckets[0])
	}
}
