package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// All test suites build their schema through AutoMigrate on sqlite, so the
// model tags must produce DDL sqlite accepts.
func TestAutoMigrateOnSqlite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:models_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	err = conn.AutoMigrate(
		&Book{},
		&Vendor{},
		&Customer{},
		&Purchase{},
		&Sale{},
		&SalesReturn{},
	)
	if err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}

	book := &Book{Title: "T", Author: "A", Quantity: 1, Price: decimal.NewFromInt(1)}
	if err := conn.Create(book).Error; err != nil {
		t.Fatalf("create book: %v", err)
	}
	if book.ID == uuid.Nil {
		t.Fatal("expected BeforeCreate to assign an id")
	}

	vendor := &Vendor{Name: "V"}
	if err := conn.Create(vendor).Error; err != nil {
		t.Fatalf("create vendor: %v", err)
	}
	if vendor.ID == uuid.Nil {
		t.Fatal("expected BeforeCreate to assign an id")
	}
}
