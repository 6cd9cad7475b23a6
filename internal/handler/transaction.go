package handler

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fintrack/internal/core"
	"fintrack/internal/models"
	"fintrack/internal/util"
)

// TransactionHandler serves transaction CRUD, filtered listings and the
// period summary endpoints.
type TransactionHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewTransactionHandler(db *gorm.DB, pageSize int) *TransactionHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &TransactionHandler{DB: db, PageSize: pageSize}
}

type transactionReq struct {
	Title      string `json:"title" binding:"required"`
	Amount     string `json:"amount" binding:"required"`
	Type       string `json:"type"`
	CategoryID uint   `json:"category_id" binding:"required"`
	AccountID  uint   `json:"account_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Notes      string `json:"notes"`
	Tags       string `json:"tags"`
	Receipt    string `json:"receipt"`
}

func (h *TransactionHandler) Create(c *gin.Context) {
	user := currentUser(c)
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	tx, ok := h.buildFromRequest(c, user.ID, &req)
	if !ok {
		return
	}

	if err := h.DB.Create(tx).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create transaction")
		return
	}

	if err := h.DB.Preload("Category").Preload("Account").
		First(tx, tx.ID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transaction")
		return
	}
	util.Success(c, util.Response{"transaction": transactionPayload(tx)})
}

// buildFromRequest validates the request and resolves category and
// account ownership. A reference to another user's category or account
// is reported as a cross-owner error and nothing is persisted.
func (h *TransactionHandler) buildFromRequest(c *gin.Context, userID uint, req *transactionReq) (*models.Transaction, bool) {
	title := strings.TrimSpace(req.Title)
	if err := util.ValidateTitle(title); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return nil, false
	}

	amount, err := util.ParseAmount(req.Amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return nil, false
	}

	txType := req.Type
	if txType == "" {
		txType = models.TypeExpense
	}
	if txType != models.TypeIncome && txType != models.TypeExpense {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "type must be income or expense")
		return nil, false
	}

	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date must be YYYY-MM-DD")
		return nil, false
	}

	if !h.resolveOwnedRef(c, userID, &models.Category{}, req.CategoryID, "category") {
		return nil, false
	}
	if !h.resolveOwnedRef(c, userID, &models.Account{}, req.AccountID, "account") {
		return nil, false
	}

	return &models.Transaction{
		UserID:     userID,
		Title:      title,
		Amount:     amount,
		Type:       txType,
		CategoryID: req.CategoryID,
		AccountID:  req.AccountID,
		Date:       date,
		Notes:      req.Notes,
		Tags:       req.Tags,
		Receipt:    req.Receipt,
	}, true
}

// resolveOwnedRef distinguishes a missing reference from one owned by a
// different user. The latter is a client error, not a not-found.
func (h *TransactionHandler) resolveOwnedRef(c *gin.Context, userID uint, model interface{}, id uint, name string) bool {
	var owner struct{ UserID uint }
	err := h.DB.Model(model).
		Select("user_id").
		Where("id = ?", id).
		Take(&owner).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, name+" not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load "+name)
		}
		return false
	}
	if owner.UserID != userID {
		util.Error(c, http.StatusBadRequest, util.CodeCrossOwner, name+" belongs to a different user")
		return false
	}
	return true
}

// List returns the user's transactions with optional filters. Explicit
// date_from/date_to bounds apply to the business date; the period
// keyword applies to the record timestamp.
func (h *TransactionHandler) List(c *gin.Context) {
	h.list(c, "")
}

// Expenses is List restricted to expense transactions.
func (h *TransactionHandler) Expenses(c *gin.Context) {
	h.list(c, models.TypeExpense)
}

// Income is List restricted to income transactions.
func (h *TransactionHandler) Income(c *gin.Context) {
	h.list(c, models.TypeIncome)
}

func (h *TransactionHandler) list(c *gin.Context, forcedType string) {
	user := currentUser(c)

	q := h.DB.Preload("Category").Preload("Account").
		Where("user_id = ?", user.ID)

	txType := forcedType
	if txType == "" {
		txType = c.Query("type")
	}
	if txType != "" {
		if txType != models.TypeIncome && txType != models.TypeExpense {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "type must be income or expense")
			return
		}
		q = q.Where("type = ?", txType)
	}

	if v := c.Query("category"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid category filter")
			return
		}
		q = q.Where("category_id = ?", id)
	}
	if v := c.Query("account"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid account filter")
			return
		}
		q = q.Where("account_id = ?", id)
	}

	if v := c.Query("date_from"); v != "" {
		from, err := util.ParseDate(v)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date_from must be YYYY-MM-DD")
			return
		}
		q = q.Where("date >= ?", from)
	}
	if v := c.Query("date_to"); v != "" {
		to, err := util.ParseDate(v)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date_to must be YYYY-MM-DD")
			return
		}
		// inclusive upper bound, whole day
		q = q.Where("date < ?", to.AddDate(0, 0, 1))
	}

	var txs []models.Transaction
	if err := q.Find(&txs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list transactions")
		return
	}

	// The period keyword windows on the record timestamp, matching the
	// summary endpoints rather than the explicit date filters.
	if keyword := c.Query("period"); keyword != "" {
		if p, ok := core.ParsePeriod(keyword); ok {
			r := p.Range(time.Now())
			kept := txs[:0]
			for _, tx := range txs {
				if r.Contains(tx.CreatedAt) {
					kept = append(kept, tx)
				}
			}
			txs = kept
		}
	}

	sortTransactions(txs, c.DefaultQuery("ordering", "-date"))

	page, pageSize := h.pagination(c)
	total := len(txs)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	util.Success(c, util.Response{
		"transactions": transactionPayloads(txs[start:end]),
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
	})
}

func (h *TransactionHandler) Get(c *gin.Context) {
	user := currentUser(c)
	tx, ok := h.loadOwned(c, user.ID)
	if !ok {
		return
	}
	util.Success(c, util.Response{"transaction": transactionPayload(tx)})
}

func (h *TransactionHandler) Update(c *gin.Context) {
	user := currentUser(c)
	existing, ok := h.loadOwned(c, user.ID)
	if !ok {
		return
	}

	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	updated, ok := h.buildFromRequest(c, user.ID, &req)
	if !ok {
		return
	}

	existing.Title = updated.Title
	existing.Amount = updated.Amount
	existing.Type = updated.Type
	existing.CategoryID = updated.CategoryID
	existing.AccountID = updated.AccountID
	existing.Date = updated.Date
	existing.Notes = updated.Notes
	existing.Tags = updated.Tags
	existing.Receipt = updated.Receipt

	if err := h.DB.Save(existing).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update transaction")
		return
	}

	if err := h.DB.Preload("Category").Preload("Account").
		First(existing, existing.ID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transaction")
		return
	}
	util.Success(c, util.Response{"transaction": transactionPayload(existing)})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	tx, ok := h.loadOwned(c, user.ID)
	if !ok {
		return
	}
	if err := h.DB.Delete(tx).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete transaction")
		return
	}
	util.Success(c, util.Response{"message": "transaction deleted"})
}

// Summary totals the user's transactions over a window resolved from
// the request: a recognized period keyword wins, else an explicit
// start_date/end_date pair, else the current month. The window applies
// to the record timestamp.
func (h *TransactionHandler) Summary(c *gin.Context) {
	user := currentUser(c)

	txs, err := ownerTransactions(h.DB, user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	keyword := c.DefaultQuery("period", "month")
	window := core.ResolveRange(keyword, c.Query("start_date"), c.Query("end_date"), time.Now())
	windowTxs := core.Filter(toCoreTransactions(txs), window, core.ByCreatedAt)

	s := core.Summarize(windowTxs)

	categoryRows := make([]gin.H, 0)
	for _, row := range core.BreakdownByCategory(windowTxs) {
		categoryRows = append(categoryRows, gin.H{
			"category": row.Title,
			"total":    row.Total.StringFixed(2),
			"count":    row.Count,
		})
	}

	accountRows := make([]gin.H, 0)
	for _, row := range core.BreakdownByAccount(windowTxs) {
		accountRows = append(accountRows, gin.H{
			"account": row.Title,
			"total":   row.Total.StringFixed(2),
			"count":   row.Count,
		})
	}

	util.Success(c, util.Response{
		"period":     keyword,
		"start_date": window.Start.Format("2006-01-02"),
		"end_date":   window.End.Format("2006-01-02"),
		"summary": gin.H{
			"total_income":      s.TotalIncome.StringFixed(2),
			"total_expenses":    s.TotalExpenses.StringFixed(2),
			"net":               s.Net.StringFixed(2),
			"transaction_count": s.Count,
			"income_count":      s.IncomeCount,
			"expense_count":     s.ExpenseCount,
		},
		"category_breakdown":  categoryRows,
		"account_breakdown":   accountRows,
		"recent_transactions": recentCorePayloads(windowTxs, 10),
	})
}

// recentCorePayloads returns the n most recently recorded transactions
// of an already-windowed set.
func recentCorePayloads(txs []core.Transaction, n int) []gin.H {
	ordered := make([]core.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
		}
		return ordered[i].ID > ordered[j].ID
	})
	if len(ordered) > n {
		ordered = ordered[:n]
	}
	out := make([]gin.H, 0, len(ordered))
	for _, tx := range ordered {
		out = append(out, gin.H{
			"id":       tx.ID,
			"title":    tx.Title,
			"amount":   tx.Amount.StringFixed(2),
			"type":     string(tx.Type),
			"category": tx.Category,
			"account":  tx.Account,
			"date":     tx.Date.Format("2006-01-02"),
		})
	}
	return out
}

// Range totals transactions between an explicit pair of business dates,
// both required and both inclusive.
func (h *TransactionHandler) Range(c *gin.Context) {
	user := currentUser(c)

	startStr := c.Query("start_date")
	endStr := c.Query("end_date")
	if startStr == "" || endStr == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start_date and end_date are required")
		return
	}
	start, err := util.ParseDate(startStr)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := util.ParseDate(endStr)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end_date must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end_date must not precede start_date")
		return
	}

	txs, err := ownerTransactions(h.DB, user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	r := core.DateRange{Start: start, End: end}
	window := core.Filter(toCoreTransactions(txs), r, core.ByDate)
	s := core.Summarize(window)

	util.Success(c, util.Response{
		"start_date":        startStr,
		"end_date":          endStr,
		"total_income":      s.TotalIncome.StringFixed(2),
		"total_expenses":    s.TotalExpenses.StringFixed(2),
		"net":               s.Net.StringFixed(2),
		"transaction_count": s.Count,
	})
}

func (h *TransactionHandler) loadOwned(c *gin.Context, userID uint) (*models.Transaction, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid transaction id")
		return nil, false
	}
	var tx models.Transaction
	if err := h.DB.Preload("Category").Preload("Account").
		Where("id = ? AND user_id = ?", id, userID).
		First(&tx).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transaction")
		}
		return nil, false
	}
	return &tx, true
}

func (h *TransactionHandler) pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(h.PageSize)))
	if pageSize < 1 || pageSize > 200 {
		pageSize = h.PageSize
	}
	return page, pageSize
}

func sortTransactions(txs []models.Transaction, ordering string) {
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")

	less := func(a, b *models.Transaction) bool {
		switch field {
		case "amount":
			if !a.Amount.Equal(b.Amount) {
				return a.Amount.LessThan(b.Amount)
			}
		case "created_at":
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		default: // date
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
		}
		return a.ID < b.ID
	}

	sort.SliceStable(txs, func(i, j int) bool {
		if desc {
			return less(&txs[j], &txs[i])
		}
		return less(&txs[i], &txs[j])
	})
}

func transactionPayload(t *models.Transaction) gin.H {
	return gin.H{
		"id":         t.ID,
		"title":      t.Title,
		"amount":     t.Amount.StringFixed(2),
		"type":       t.Type,
		"category":   gin.H{"id": t.CategoryID, "title": t.Category.Title},
		"account":    gin.H{"id": t.AccountID, "title": t.Account.Title},
		"date":       t.Date.Format("2006-01-02"),
		"notes":      t.Notes,
		"tags":       t.Tags,
		"receipt":    t.Receipt,
		"created_at": t.CreatedAt.Format(time.RFC3339),
	}
}

func transactionPayloads(txs []models.Transaction) []gin.H {
	out := make([]gin.H, 0, len(txs))
	for i := range txs {
		out = append(out, transactionPayload(&txs[i]))
	}
	return out
}
