package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types. Amount always stores the magnitude; the sign is
// carried by Type.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is a single ledger record. Date is the business date the
// transaction happened; CreatedAt is set once on insert and never changes.
// Category and Account must belong to the same user as the transaction,
// which handlers enforce before every write.
type Transaction struct {
	ID         uint            `gorm:"primaryKey"`
	UserID     uint            `gorm:"index:idx_tx_user_date,priority:1;index:idx_tx_user_created,priority:1;not null"`
	Title      string          `gorm:"size:200;not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Type       string          `gorm:"size:10;index;not null;default:expense"`
	CategoryID uint            `gorm:"index;not null"`
	AccountID  uint            `gorm:"index;not null"`
	Date       time.Time       `gorm:"index:idx_tx_user_date,priority:2;not null"`
	Notes      string          `gorm:"type:text"`
	Tags       string          `gorm:"size:500"`
	Receipt    string          `gorm:"size:255"` // opaque reference, storage handled elsewhere
	CreatedAt  time.Time       `gorm:"index:idx_tx_user_created,priority:2"`
	UpdatedAt  time.Time

	User     User     `gorm:"constraint:OnDelete:CASCADE"`
	Category Category `gorm:"constraint:OnDelete:CASCADE"`
	Account  Account  `gorm:"constraint:OnDelete:CASCADE"`
}
