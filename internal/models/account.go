package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a money container (wallet, bank account, card). The current
// balance is derived from the transaction history on every read and is
// never persisted.
type Account struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"uniqueIndex:idx_accounts_user_title;not null"`
	Title     string          `gorm:"size:200;uniqueIndex:idx_accounts_user_title;not null"`
	Initial   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
