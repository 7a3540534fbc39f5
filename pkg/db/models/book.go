package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Book is a catalog entry whose quantity is mutated only by purchases,
// sales, and sales returns.
type Book struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Title     string          `gorm:"column:title;not null;index"`
	Author    string          `gorm:"column:author;not null;index"`
	ISBN      *string         `gorm:"column:isbn;uniqueIndex"`
	Quantity  int             `gorm:"column:quantity;not null;default:0"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an ID when the dialect has no uuid default.
func (b *Book) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
