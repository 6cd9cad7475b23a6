package models

import "time"

// Category labels transactions. Titles are unique per owner.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex:idx_categories_user_title;not null"`
	Title     string `gorm:"size:200;uniqueIndex:idx_categories_user_title;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
