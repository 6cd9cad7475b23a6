package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/core"
	"fintrack/internal/models"
	"fintrack/internal/util"
)

// AccountHandler serves account CRUD, per-account transaction listings,
// the account summary and the balance history endpoint.
type AccountHandler struct {
	DB *gorm.DB
}

func NewAccountHandler(db *gorm.DB) *AccountHandler {
	return &AccountHandler{DB: db}
}

type accountReq struct {
	Title   string `json:"title" binding:"required"`
	Initial string `json:"initial"`
}

func (h *AccountHandler) Create(c *gin.Context) {
	user := currentUser(c)
	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	if err := util.ValidateTitle(title); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	initial := decimal.Zero
	if req.Initial != "" {
		var err error
		initial, err = decimal.NewFromString(req.Initial)
		if err != nil || initial.Exponent() < -2 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid initial balance")
			return
		}
	}

	if h.titleTaken(user.ID, title, 0) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "account title already in use")
		return
	}

	account := models.Account{
		UserID:  user.ID,
		Title:   title,
		Initial: initial,
	}
	if err := h.DB.Create(&account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create account")
		return
	}

	util.Success(c, util.Response{"account": h.accountPayload(&account)})
}

func (h *AccountHandler) List(c *gin.Context) {
	user := currentUser(c)
	var accounts []models.Account
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("title ASC").
		Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list accounts")
		return
	}

	payload := make([]gin.H, 0, len(accounts))
	for i := range accounts {
		payload = append(payload, h.accountPayload(&accounts[i]))
	}
	util.Success(c, util.Response{"accounts": payload})
}

func (h *AccountHandler) Get(c *gin.Context) {
	user := currentUser(c)
	account, ok := h.loadOwned(c, user.ID)
	if !ok {
		return
	}
	util.Success(c, util.Response{"account": h.accountPayload(account)})
}

type accountUpdateReq struct {
	Title   *string `json:"title"`
	Initial *string `json:"initial"`
}

func (h *AccountHandler) Update(c *gin.Context) {
	user := currentUser(c)
	account, ok := h.loadOwned(c, user.ID)
	if !ok {
		return
	}

	var req accountUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := util.ValidateTitle(title); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		if h.titleTaken(user.ID, title, account.ID) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "account title already in use")
			return
		}
		account.Title = title
	}
	if req.Initial != nil {
		initial, err := decimal.NewFromString(*req.Initial)
		if err != nil || initial.Exponent() < -2 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid initial balance")
			return
		}
		account.Initial = initial
	}

	if err := h.DB.Save(account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update account")
		return
	}
	util.Success(c, util.Response{"account": h.accountPayload(account)})
}

func (h *AccountHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	account, ok := h.loadOwned(c, user.ID)
	if !ok {
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", account.ID).
			Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(account).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete account")
		return
	}
	util.Success(c, util.Response{"message": "account deleted"})
}

// Summary returns every account with activity totals and the derived
// balance, plus a combined net worth figure.
func (h *AccountHandler) Summary(c *gin.Context) {
	user := currentUser(c)
	var accounts []models.Account
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("title ASC").
		Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list accounts")
		return
	}

	netWorth := decimal.Zero
	rows := make([]gin.H, 0, len(accounts))
	for i := range accounts {
		a := &accounts[i]
		txs, err := h.accountTxs(a.ID)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
			return
		}
		summary := core.Summarize(toCoreTransactions(txs))
		balance := core.CurrentBalance(a.Initial, toCoreTransactions(txs))
		netWorth = netWorth.Add(balance)
		rows = append(rows, gin.H{
			"id":                a.ID,
			"title":             a.Title,
			"initial":           a.Initial.StringFixed(2),
			"balance":           balance.StringFixed(2),
			"total_income":      summary.TotalIncome.StringFixed(2),
			"total_expenses":    summary.TotalExpenses.StringFixed(2),
			"transaction_count": summary.Count,
		})
	}

	util.Success(c, util.Response{
		"accounts":  rows,
		"net_worth": netWorth.StringFixed(2),
	})
}

// Transactions lists the transactions of one account, newest business
// date first.
func (h *AccountHandler) Transactions(c *gin.Context) {
	user := currentUser(c)
	account, ok := h.loadOwned(c, user.ID)
	if !ok {
		return
	}

	var txs []models.Transaction
	if err := h.DB.Preload("Category").Preload("Account").
		Where("account_id = ?", account.ID).
		Order("date DESC, id DESC").
		Find(&txs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	util.Success(c, util.Response{
		"account":      h.accountPayload(account),
		"transactions": transactionPayloads(txs),
	})
}

// BalanceHistory returns the running balance over a requested window.
// The window comes from ?period= or an explicit ?start_date=&end_date=
// pair; with neither, the current month is used. Each point layers the
// in-window deltas on top of the account's static initial value.
func (h *AccountHandler) BalanceHistory(c *gin.Context) {
	user := currentUser(c)
	account, ok := h.loadOwned(c, user.ID)
	if !ok {
		return
	}

	r := core.ResolveRange(
		c.Query("period"),
		c.Query("start_date"),
		c.Query("end_date"),
		time.Now(),
	)

	txs, err := h.accountTxs(account.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	window := core.Filter(toCoreTransactions(txs), r, core.ByDate)
	points := core.BalanceHistory(account.Initial, window)

	payload := make([]gin.H, 0, len(points))
	for _, p := range points {
		payload = append(payload, gin.H{
			"date":    p.Date.Format("2006-01-02"),
			"balance": p.Balance.StringFixed(2),
			"transaction": gin.H{
				"id":     p.Transaction.ID,
				"title":  p.Transaction.Title,
				"type":   string(p.Transaction.Type),
				"amount": p.Transaction.Amount.StringFixed(2),
			},
		})
	}

	util.Success(c, util.Response{
		"account":    h.accountPayload(account),
		"start_date": r.Start.Format("2006-01-02"),
		"end_date":   r.End.Format("2006-01-02"),
		"history":    payload,
	})
}

func (h *AccountHandler) titleTaken(userID uint, title string, excludeID uint) bool {
	var count int64
	q := h.DB.Model(&models.Account{}).
		Where("user_id = ? AND title = ?", userID, title)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	q.Count(&count)
	return count > 0
}

func (h *AccountHandler) loadOwned(c *gin.Context, userID uint) (*models.Account, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid account id")
		return nil, false
	}
	var account models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).
		First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load account")
		}
		return nil, false
	}
	return &account, true
}

func (h *AccountHandler) accountTxs(accountID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := h.DB.Preload("Category").Preload("Account").
		Where("account_id = ?", accountID).
		Find(&txs).Error
	return txs, err
}

func (h *AccountHandler) accountPayload(a *models.Account) gin.H {
	txs, err := h.accountTxs(a.ID)
	balance := a.Initial
	if err == nil {
		balance = core.CurrentBalance(a.Initial, toCoreTransactions(txs))
	}
	return gin.H{
		"id":         a.ID,
		"title":      a.Title,
		"initial":    a.Initial.StringFixed(2),
		"balance":    balance.StringFixed(2),
		"created_at": a.CreatedAt.Format(time.RFC3339),
	}
}
