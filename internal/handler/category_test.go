package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestCategoryDuplicateTitleRejected(t *testing.T) {
	db := newTestDB(t)
	r := testRouter(db)
	_, token := newTestUser(t, db, "alice@example.com")

	seedCategory(t, r, token, "Food")
	w, env := doJSON(t, r, http.MethodPost, "/api/categories", token, gin.H{"title": "Food"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate title: status %d, want 400", w.Code)
	}
	if env.Code != 40001 {
		t.Errorf("code = %d, want 40001", env.Code)
	}
}

func TestCategoryStats(t *testing.T) {
	db := newTestDB(t)
	r := testRouter(db)
	_, token := newTestUser(t, db, "alice@example.com")

	accountID := seedAccount(t, r, token, "Checking", "0")
	foodID := seedCategory(t, r, token, "Food")
	salaryID := seedCategory(t, r, token, "Salary")

	today := time.Now().Format("2006-01-02")
	seedTransaction(t, r, token, foodID, accountID, "Lunch", "20.00", "expense", today)
	seedTransaction(t, r, token, foodID, accountID, "Dinner", "30.00", "expense", today)
	seedTransaction(t, r, token, salaryID, accountID, "Paycheck", "1000.00", "income", today)

	w, env := doJSON(t, r, http.MethodGet, "/api/categories/stats", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: status %d body %s", w.Code, w.Body.String())
	}
	if got := env.Data["period"]; got != "month" {
		t.Errorf("period = %v, want month (default)", got)
	}

	stats := env.Data["stats"].([]interface{})
	if len(stats) != 2 {
		t.Fatalf("stats length = %d, want 2", len(stats))
	}

	// Both types count toward totals, sorted descending.
	first := stats[0].(map[string]interface{})
	if got := first["title"]; got != "Salary" {
		t.Errorf("top category = %v, want Salary", got)
	}
	second := stats[1].(map[string]interface{})
	if got := second["total"]; got != "50.00" {
		t.Errorf("food total = %v, want 50.00", got)
	}
	if got := second["count"].(float64); got != 2 {
		t.Errorf("food count = %v, want 2", got)
	}
	if got := second["id"].(float64); uint(got) != foodID {
		t.Errorf("food id = %v, want %d", got, foodID)
	}
}

func TestCategoryStatsIncludesInactiveCategories(t *testing.T) {
	db := newTestDB(t)
	r := testRouter(db)
	_, token := newTestUser(t, db, "alice@example.com")

	accountID := seedAccount(t, r, token, "Checking", "0")
	foodID := seedCategory(t, r, token, "Food")
	idleID := seedCategory(t, r, token, "Idle")

	seedTransaction(t, r, token, foodID, accountID, "Lunch", "20.00", "expense", time.Now().Format("2006-01-02"))

	_, env := doJSON(t, r, http.MethodGet, "/api/categories/stats", token, nil)
	stats := env.Data["stats"].([]interface{})
	if len(stats) != 2 {
		t.Fatalf("stats length = %d, want 2 (inactive category included)", len(stats))
	}
	last := stats[1].(map[string]interface{})
	if got := last["title"]; got != "Idle" {
		t.Errorf("last title = %v, want Idle", got)
	}
	if got := last["total"]; got != "0.00" {
		t.Errorf("idle total = %v, want 0.00", got)
	}
	if got := last["count"].(float64); got != 0 {
		t.Errorf("idle count = %v, want 0", got)
	}
	if got := last["id"].(float64); uint(got) != idleID {
		t.Errorf("idle id = %v, want %d", got, idleID)
	}
}

func TestCategoryStatsUnknownPeriodUnfiltered(t *testing.T) {
	db := newTestDB(t)
	r := testRouter(db)
	_, token := newTestUser(t, db, "alice@example.com")

	accountID := seedAccount(t, r, token, "Checking", "0")
	foodID := seedCategory(t, r, token, "Food")

	// Business date far in the past; an unknown keyword skips windowing.
	seedTransaction(t, r, token, foodID, accountID, "Old lunch", "10.00", "expense", "2020-01-15")

	_, env := doJSON(t, r, http.MethodGet, "/api/categories/stats?period=bogus", token, nil)
	stats := env.Data["stats"].([]interface{})
	if len(stats) != 1 {
		t.Fatalf("stats length = %d, want 1", len(stats))
	}
	row := stats[0].(map[string]interface{})
	if got := row["total"]; got != "10.00" {
		t.Errorf("total = %v, want 10.00 (unknown keyword leaves totals unfiltered)", got)
	}
}
