package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale records outbound stock to a customer. The stock check and the
// quantity decrement happen atomically with the insert.
type Sale struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID  uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;index"`
	BookID      uuid.UUID       `gorm:"column:book_id;type:uuid;not null;index"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	SoldAt      time.Time       `gorm:"column:sold_at;not null"`
	Notes       *string         `gorm:"column:notes"`
	Customer    *Customer       `gorm:"foreignKey:CustomerID"`
	Book        *Book           `gorm:"foreignKey:BookID"`
	Returns     []SalesReturn   `gorm:"foreignKey:SaleID"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Sale) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
