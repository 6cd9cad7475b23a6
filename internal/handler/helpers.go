package handler

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fintrack/internal/core"
	"fintrack/internal/models"
)

// currentUser pulls the authenticated user out of the gin context.
// AuthMiddleware guarantees it is present on protected routes.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get("currentUser")
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// toCoreTransactions converts persisted transactions into the value
// type the aggregation engine works on. Category and Account must be
// preloaded; missing associations yield empty group titles.
func toCoreTransactions(txs []models.Transaction) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		out = append(out, core.Transaction{
			ID:        t.ID,
			Title:     t.Title,
			Type:      core.Type(t.Type),
			Amount:    t.Amount,
			Category:  t.Category.Title,
			Account:   t.Account.Title,
			Date:      t.Date,
			CreatedAt: t.CreatedAt,
		})
	}
	return out
}

// ownerTransactions loads all transactions belonging to a user with
// category and account titles preloaded for grouping.
func ownerTransactions(db *gorm.DB, userID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := db.Preload("Category").Preload("Account").
		Where("user_id = ?", userID).
		Find(&txs).Error
	return txs, err
}
