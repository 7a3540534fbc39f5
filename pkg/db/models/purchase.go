package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase records inbound stock from a vendor. Rows are immutable after
// creation; the linked book quantity is adjusted in the same transaction.
type Purchase struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	VendorID    uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;index"`
	BookID      uuid.UUID       `gorm:"column:book_id;type:uuid;not null;index"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitCost    decimal.Decimal `gorm:"column:unit_cost;type:numeric(10,2);not null"`
	TotalCost   decimal.Decimal `gorm:"column:total_cost;type:numeric(12,2);not null"`
	PurchasedAt time.Time       `gorm:"column:purchased_at;not null"`
	Notes       *string         `gorm:"column:notes"`
	Vendor      *Vendor         `gorm:"foreignKey:VendorID"`
	Book        *Book           `gorm:"foreignKey:BookID"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Purchase) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
