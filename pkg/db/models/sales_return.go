package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalesReturn records stock coming back from a sale. The cumulative
// returned quantity for a sale can never exceed the sold quantity.
type SalesReturn struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SaleID      uuid.UUID `gorm:"column:sale_id;type:uuid;not null;index"`
	Quantity    int       `gorm:"column:quantity;not null"`
	Reason      *string   `gorm:"column:reason"`
	ProcessedAt time.Time `gorm:"column:processed_at;not null"`
	Sale        *Sale     `gorm:"foreignKey:SaleID"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *SalesReturn) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
