package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/models"
	"fintrack/internal/util"
)

// DashboardHandler serves the aggregated dashboard and the quick-stats
// endpoint. Both window on the record timestamp; the trend series and
// the recent list use the business date.
type DashboardHandler struct {
	DB  *gorm.DB
	App config.AppConfig
}

func NewDashboardHandler(db *gorm.DB, app config.AppConfig) *DashboardHandler {
	if app.TrendMonths <= 0 {
		app.TrendMonths = 6
	}
	if app.TopCategories <= 0 {
		app.TopCategories = 5
	}
	return &DashboardHandler{DB: db, App: app}
}

func (h *DashboardHandler) Dashboard(c *gin.Context) {
	user := currentUser(c)
	now := time.Now()

	txs, err := ownerTransactions(h.DB, user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}
	coreTxs := toCoreTransactions(txs)

	keyword := c.DefaultQuery("period", "month")
	window := core.ResolveRange(keyword, c.Query("start_date"), c.Query("end_date"), now)
	windowTxs := core.Filter(coreTxs, window, core.ByCreatedAt)
	summary := core.Summarize(windowTxs)

	breakdown := core.BreakdownByCategory(windowTxs)
	breakdownRows := make([]gin.H, 0, len(breakdown))
	for _, row := range breakdown {
		breakdownRows = append(breakdownRows, gin.H{
			"category": row.Title,
			"total":    row.Total.StringFixed(2),
			"count":    row.Count,
		})
	}

	accountRows, totalBalance, err := h.accountSummary(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load accounts")
		return
	}

	recent, err := h.recentTransactions(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	trend := core.MonthlyTrend(coreTxs, now, h.App.TrendMonths)
	trendRows := make([]gin.H, 0, len(trend))
	for _, b := range trend {
		trendRows = append(trendRows, gin.H{
			"month":    b.Month,
			"income":   b.Income.StringFixed(2),
			"expenses": b.Expenses.StringFixed(2),
			"net":      b.Net.StringFixed(2),
		})
	}

	top := core.TopN(breakdown, h.App.TopCategories)
	topRows := make([]gin.H, 0, len(top))
	for _, row := range top {
		topRows = append(topRows, gin.H{
			"category": row.Title,
			"total":    row.Total.StringFixed(2),
			"count":    row.Count,
		})
	}

	util.Success(c, util.Response{
		"period": gin.H{
			"type":       keyword,
			"start_date": window.Start.Format("2006-01-02"),
			"end_date":   window.End.Format("2006-01-02"),
		},
		"summary": gin.H{
			"total_income":          summary.TotalIncome.StringFixed(2),
			"total_expenses":        summary.TotalExpenses.StringFixed(2),
			"net":                   summary.Net.StringFixed(2),
			"transaction_count":     summary.Count,
			"total_account_balance": totalBalance.StringFixed(2),
		},
		"category_breakdown":  breakdownRows,
		"account_summary":     accountRows,
		"recent_transactions": recent,
		"monthly_trend":       trendRows,
		"top_categories":      topRows,
	})
}

// accountSummary reports each account's derived balance plus its change
// since opening (balance minus initial), and the combined balance.
func (h *DashboardHandler) accountSummary(userID uint) ([]gin.H, decimal.Decimal, error) {
	var accounts []models.Account
	if err := h.DB.Where("user_id = ?", userID).
		Order("title ASC").
		Find(&accounts).Error; err != nil {
		return nil, decimal.Zero, err
	}

	total := decimal.Zero
	rows := make([]gin.H, 0, len(accounts))
	for i := range accounts {
		a := &accounts[i]
		var txs []models.Transaction
		if err := h.DB.Preload("Category").Preload("Account").
			Where("account_id = ?", a.ID).
			Find(&txs).Error; err != nil {
			return nil, decimal.Zero, err
		}
		balance := core.CurrentBalance(a.Initial, toCoreTransactions(txs))
		total = total.Add(balance)

		rows = append(rows, gin.H{
			"id":      a.ID,
			"title":   a.Title,
			"initial": a.Initial.StringFixed(2),
			"balance": balance.StringFixed(2),
			"change":  balance.Sub(a.Initial).StringFixed(2),
		})
	}
	return rows, total, nil
}

func (h *DashboardHandler) recentTransactions(userID uint) ([]gin.H, error) {
	limit := h.App.RecentLimit
	if limit <= 0 {
		limit = 10
	}
	var txs []models.Transaction
	if err := h.DB.Preload("Category").Preload("Account").
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return transactionPayloads(txs), nil
}

// QuickStats reports today, this week and this month side by side.
func (h *DashboardHandler) QuickStats(c *gin.Context) {
	user := currentUser(c)
	now := time.Now()

	txs, err := ownerTransactions(h.DB, user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}
	coreTxs := toCoreTransactions(txs)

	stat := func(p core.Period) gin.H {
		s := core.Summarize(core.Filter(coreTxs, p.Range(now), core.ByCreatedAt))
		return gin.H{
			"income":   s.TotalIncome.StringFixed(2),
			"expenses": s.TotalExpenses.StringFixed(2),
			"net":      s.Net.StringFixed(2),
			"count":    s.Count,
		}
	}

	util.Success(c, util.Response{
		"today": stat(core.PeriodToday),
		"week":  stat(core.PeriodWeek),
		"month": stat(core.PeriodMonth),
	})
}
