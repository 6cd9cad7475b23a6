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

// CategoryHandler serves category CRUD, per-category transaction
// listings and spending statistics.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

type categoryReq struct {
	Title string `json:"title" binding:"required"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user := currentUser(c)
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	if err := util.ValidateTitle(title); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if h.titleTaken(user.ID, title, 0) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "category title already in use")
		return
	}

	category := models.Category{UserID: user.ID, Title: title}
	if err := h.DB.Create(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create category")
		return
	}
	util.Success(c, util.Response{"category": categoryPayload(&category)})
}

func (h *CategoryHandler) List(c *gin.Context) {
	user := currentUser(c)
	var categories []models.Category
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("title ASC").
		Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list categories")
		return
	}

	payload := make([]gin.H, 0, len(categories))
	for i := range categories {
		payload = append(payload, categoryPayload(&categories[i]))
	}
	util.Success(c, util.Response{"categories": payload})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	user := currentUser(c)
	category, ok := h.loadOwned(c, user.ID)
	if !ok {
		return
	}
	util.Success(c, util.Response{"category": categoryPayload(category)})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	user := currentUser(c)
	category, ok := h.loadOwned(c, user.ID)
	if !ok {
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	if err := util.ValidateTitle(title); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if h.titleTaken(user.ID, title, category.ID) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "category title already in use")
		return
	}

	category.Title = title
	if err := h.DB.Save(category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update category")
		return
	}
	util.Success(c, util.Response{"category": categoryPayload(category)})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	category, ok := h.loadOwned(c, user.ID)
	if !ok {
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", category.ID).
			Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete category")
		return
	}
	util.Success(c, util.Response{"message": "category deleted"})
}

// Stats returns per-category totals over a period, one row for every
// owned category including those with no activity. The period keyword
// defaults to month; an unrecognized keyword leaves the totals
// unfiltered. Totals include both income and expense amounts.
func (h *CategoryHandler) Stats(c *gin.Context) {
	user := currentUser(c)

	var categories []models.Category
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("title ASC").
		Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list categories")
		return
	}

	txs, err := ownerTransactions(h.DB, user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	coreTxs := toCoreTransactions(txs)
	keyword := c.DefaultQuery("period", "month")
	if p, ok := core.ParsePeriod(keyword); ok {
		coreTxs = core.Filter(coreTxs, p.Range(time.Now()), core.ByDate)
	}
	byCategory := core.BreakdownAllByCategory(coreTxs)

	totals := make(map[string]core.BreakdownRow, len(byCategory))
	for _, row := range byCategory {
		totals[row.Title] = row
	}

	type statRow struct {
		id    uint
		title string
		row   core.BreakdownRow
	}
	rows := make([]statRow, 0, len(categories))
	for i := range categories {
		cat := &categories[i]
		row := totals[cat.Title]
		rows = append(rows, statRow{id: cat.ID, title: cat.Title, row: row})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].row.Total.GreaterThan(rows[j].row.Total)
	})

	payload := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		payload = append(payload, gin.H{
			"id":    r.id,
			"title": r.title,
			"total": r.row.Total.StringFixed(2),
			"count": r.row.Count,
		})
	}

	util.Success(c, util.Response{
		"period": keyword,
		"stats":  payload,
	})
}

// Transactions lists one category's transactions, newest business date
// first.
func (h *CategoryHandler) Transactions(c *gin.Context) {
	user := currentUser(c)
	category, ok := h.loadOwned(c, user.ID)
	if !ok {
		return
	}

	var txs []models.Transaction
	if err := h.DB.Preload("Category").Preload("Account").
		Where("category_id = ?", category.ID).
		Order("date DESC, id DESC").
		Find(&txs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	util.Success(c, util.Response{
		"category":     categoryPayload(category),
		"transactions": transactionPayloads(txs),
	})
}

func (h *CategoryHandler) titleTaken(userID uint, title string, excludeID uint) bool {
	var count int64
	q := h.DB.Model(&models.Category{}).
		Where("user_id = ? AND title = ?", userID, title)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	q.Count(&count)
	return count > 0
}

func (h *CategoryHandler) loadOwned(c *gin.Context, userID uint) (*models.Category, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid category id")
		return nil, false
	}
	var category models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).
		First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load category")
		}
		return nil, false
	}
	return &category, true
}

func categoryPayload(cat *models.Category) gin.H {
	return gin.H{
		"id":         cat.ID,
		"title":      cat.Title,
		"created_at": cat.CreatedAt.Format(time.RFC3339),
	}
}
