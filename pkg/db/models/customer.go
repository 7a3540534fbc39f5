package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookstock/inventory-backend/pkg/enums"
)

// Customer buys books through sales.
type Customer struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	Name           string                 `gorm:"column:name;not null;uniqueIndex"`
	ContactAddress *string                `gorm:"column:contact_address"`
	ContactPerson  *string                `gorm:"column:contact_person"`
	ContactNumber  *string                `gorm:"column:contact_number"`
	Email          *string                `gorm:"column:email"`
	TaxNumber      *string                `gorm:"column:tax_number"`
	Category       enums.CustomerCategory `gorm:"column:category;not null"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
