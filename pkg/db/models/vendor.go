package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vendor supplies books through purchases.
type Vendor struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name           string    `gorm:"column:name;not null;uniqueIndex"`
	ContactAddress *string   `gorm:"column:contact_address"`
	ContactPerson  *string   `gorm:"column:contact_person"`
	ContactNumber  *string   `gorm:"column:contact_number"`
	Email          *string   `gorm:"column:email"`
	TaxNumber      *string   `gorm:"column:tax_number"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *Vendor) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
