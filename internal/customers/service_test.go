package customers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bookstock/inventory-backend/pkg/db"
	"github.com/bookstock/inventory-backend/pkg/db/models"
	"github.com/bookstock/inventory-backend/pkg/enums"
	pkgerrors "github.com/bookstock/inventory-backend/pkg/errors"
	"github.com/bookstock/inventory-backend/pkg/pagination"
)

func TestCreateCustomerDuplicateName(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Name: "Lakeside School", Category: enums.CustomerCategorySchool}); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	_, err := svc.Create(ctx, CreateInput{Name: "Lakeside School", Category: enums.CustomerCategoryDealer})
	assertCode(t, err, pkgerrors.CodeDuplicateKey)
}

func TestCreateCustomerInvalidCategory(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), CreateInput{Name: "Oddball", Category: "wholesaler"})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateCustomerCategory(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Corner Shop", Category: enums.CustomerCategoryStationeryShop})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	dealer := enums.CustomerCategoryDealer
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Category: &dealer})
	if err != nil {
		t.Fatalf("update customer: %v", err)
	}
	if updated.Category != enums.CustomerCategoryDealer {
		t.Fatalf("expected dealer category, got %s", updated.Category)
	}
	if updated.Name != "Corner Shop" {
		t.Fatalf("expected name preserved, got %q", updated.Name)
	}

	bogus := enums.CustomerCategory("club")
	_, err = svc.Update(ctx, created.ID, UpdateInput{Category: &bogus})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestDeleteCustomerBlockedBySales(t *testing.T) {
	t.Parallel()

	svc, client := newTestService(t)
	ctx := context.Background()

	customer, err := svc.Create(ctx, CreateInput{Name: "Repeat Buyer", Category: enums.CustomerCategoryDealer})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	book := &models.Book{Title: "Sold Once", Author: "A", Quantity: 5, Price: decimal.NewFromInt(1)}
	if err := client.DB().Create(book).Error; err != nil {
		t.Fatalf("seed book: %v", err)
	}
	sale := &models.Sale{
		CustomerID:  customer.ID,
		BookID:      book.ID,
		Quantity:    1,
		UnitPrice:   decimal.NewFromInt(1),
		TotalAmount: decimal.NewFromInt(1),
	}
	if err := client.DB().Create(sale).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}

	assertCode(t, svc.Delete(ctx, customer.ID), pkgerrors.CodeHasDependents)
}

func TestDeleteCustomerWithoutSales(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	customer, err := svc.Create(ctx, CreateInput{Name: "One Timer", Category: enums.CustomerCategorySchool})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if err := svc.Delete(ctx, customer.ID); err != nil {
		t.Fatalf("delete customer: %v", err)
	}
	_, err = svc.Get(ctx, customer.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestListCustomersFilterByCategory(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	seed := []CreateInput{
		{Name: "East High", Category: enums.CustomerCategorySchool},
		{Name: "West High", Category: enums.CustomerCategorySchool},
		{Name: "Page Turner Shop", Category: enums.CustomerCategoryStationeryShop},
	}
	for _, input := range seed {
		if _, err := svc.Create(ctx, input); err != nil {
			t.Fatalf("create %q: %v", input.Name, err)
		}
	}

	school := enums.CustomerCategorySchool
	page, err := svc.List(ctx, ListInput{
		Filters: ListFilters{Category: &school},
		Page:    pagination.Params{Limit: 10},
	})
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 schools, got %d", page.Total)
	}

	page, err = svc.List(ctx, ListInput{
		Filters: ListFilters{Query: "high", Category: &school},
	})
	if err != nil {
		t.Fatalf("list with query: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 matches for combined filters, got %d", page.Total)
	}
}

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	dsn := "file:customers_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Customer{}, &models.Book{}, &models.Sale{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	client := db.NewFromConn(conn)
	svc, err := NewService(NewRepository(conn), client)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, client
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}
