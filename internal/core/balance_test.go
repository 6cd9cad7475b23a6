package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCurrentBalance(t *testing.T) {
	day1 := date(2024, 3, 1)
	day2 := date(2024, 3, 2)

	txs := []Transaction{
		{ID: 1, Type: Income, Amount: dec("50.00"), Date: day1},
		{ID: 2, Type: Expense, Amount: dec("30.00"), Date: day2},
	}

	got := CurrentBalance(dec("100.00"), txs)
	if !got.Equal(dec("120.00")) {
		t.Fatalf("expected 120.00, got %s", got)
	}

	// order independence
	reversed := []Transaction{txs[1], txs[0]}
	if got := CurrentBalance(dec("100.00"), reversed); !got.Equal(dec("120.00")) {
		t.Fatalf("reversed order: expected 120.00, got %s", got)
	}
}

func TestCurrentBalanceEmpty(t *testing.T) {
	if got := CurrentBalance(dec("42.50"), nil); !got.Equal(dec("42.50")) {
		t.Fatalf("expected initial back, got %s", got)
	}
}

func TestCurrentBalanceExactDecimals(t *testing.T) {
	// 0.1 + 0.2 style sums must not drift
	txs := []Transaction{
		{ID: 1, Type: Income, Amount: dec("0.10")},
		{ID: 2, Type: Income, Amount: dec("0.20")},
		{ID: 3, Type: Expense, Amount: dec("0.30")},
	}
	if got := CurrentBalance(decimal.Zero, txs); !got.Equal(decimal.Zero) {
		t.Fatalf("expected 0, got %s", got)
	}
}

func TestBalanceHistory(t *testing.T) {
	day1 := date(2024, 3, 1)
	day2 := date(2024, 3, 2)

	// deliberately out of order on input
	txs := []Transaction{
		{ID: 2, Title: "groceries", Type: Expense, Amount: dec("30.00"), Date: day2},
		{ID: 1, Title: "salary", Type: Income, Amount: dec("50.00"), Date: day1},
	}

	points := BalanceHistory(dec("100.00"), txs)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if !points[0].Date.Equal(day1) || !points[0].Balance.Equal(dec("150.00")) {
		t.Errorf("point 0: got (%s, %s), want (%s, 150.00)",
			points[0].Date.Format("2006-01-02"), points[0].Balance, day1.Format("2006-01-02"))
	}
	if !points[1].Date.Equal(day2) || !points[1].Balance.Equal(dec("120.00")) {
		t.Errorf("point 1: got (%s, %s), want (%s, 120.00)",
			points[1].Date.Format("2006-01-02"), points[1].Balance, day2.Format("2006-01-02"))
	}
	if points[0].Transaction.Title != "salary" {
		t.Errorf("point 0 snapshot: got %q, want salary", points[0].Transaction.Title)
	}
}

func TestBalanceHistoryEmptyWindow(t *testing.T) {
	points := BalanceHistory(dec("100.00"), nil)
	if len(points) != 0 {
		t.Fatalf("expected empty series, got %d points", len(points))
	}
}

func TestBalanceHistorySameDayOrder(t *testing.T) {
	day := date(2024, 3, 5)
	txs := []Transaction{
		{ID: 7, Type: Expense, Amount: dec("10.00"), Date: day},
		{ID: 3, Type: Income, Amount: dec("40.00"), Date: day},
	}
	points := BalanceHistory(decimal.Zero, txs)
	// same-day ties resolve by ID so replays are deterministic
	if points[0].Transaction.ID != 3 || points[1].Transaction.ID != 7 {
		t.Fatalf("expected ID order 3,7 got %d,%d", points[0].Transaction.ID, points[1].Transaction.ID)
	}
	if !points[1].Balance.Equal(dec("30.00")) {
		t.Fatalf("expected final balance 30.00, got %s", points[1].Balance)
	}
}
