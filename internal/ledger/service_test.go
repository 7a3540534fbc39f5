package ledger

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

func TestRecordPurchaseAddsStock(t *testing.T) {
	t.Parallel()

	svc, client := newTestService(t)
	ctx := context.Background()
	vendor := seedVendor(t, client, "Scholastic Supply")
	book := seedBook(t, client, "The Go Programming Language", 10)

	purchase, err := svc.RecordPurchase(ctx, RecordPurchaseInput{
		VendorID: vendor.ID,
		BookID:   book.ID,
		Quantity: 5,
		UnitCost: decimal.RequireFromString("2.00"),
	})
	if err != nil {
		t.Fatalf("record purchase: %v", err)
	}
	if !purchase.TotalCost.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("unexpected total cost: %s", purchase.TotalCost)
	}
	if purchase.Vendor == nil || purchase.Book == nil {
		t.Fatal("expected vendor and book preloaded")
	}
	if got := loadBookQuantity(t, client, book.ID); got != 15 {
		t.Fatalf("expected quantity 15, got %d", got)
	}
}

func TestRecordPurchaseUnknownVendor(t *testing.T) {
	t.Parallel()

	svc, client := newTestService(t)
	ctx := context.Background()
	book := seedBook(t, client, "Orphaned", 1)

	_, err := svc.RecordPurchase(ctx, RecordPurchaseInput{
		VendorID: uuid.New(),
		BookID:   book.ID,
		Quantity: 1,
		UnitCost: decimal.NewFromInt(1),
	})
	assertCode(t, err, pkgerrors.CodeNotFound)
	if got := loadBookQuantity(t, client, book.ID); got != 1 {
		t.Fatalf("expected quantity unchanged, got %d", got)
	}
}

func TestRecordPurchaseRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordPurchase(ctx, RecordPurchaseInput{
		VendorID: uuid.New(),
		BookID:   uuid.New(),
		Quantity: 0,
		UnitCost: decimal.NewFromInt(1),
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.RecordPurchase(ctx, RecordPurchaseInput{
		VendorID: uuid.New(),
		BookID:   uuid.New(),
		Quantity: 1,
		UnitCost: decimal.RequireFromString("-0.01"),
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestRecordSaleDeductsStock(t *testing.T) {
	t.Parallel()

	svc, client := newTestService(t)
	ctx := context.Background()
	customer := seedCustomer(t, client, "Hillside School")
	book := seedBook(t, client, "Clean Architecture", 15)

	sale, err := svc.RecordSale(ctx, RecordSaleInput{
		CustomerID: customer.ID,
		BookID:     book.ID,
		Quantity:   15,
		UnitPrice:  decimal.RequireFromString("3.50"),
	})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if !sale.TotalAmount.Equal(decimal.RequireFromString("52.50")) {
		t.Fatalf("unexpected total amount: %s", sale.TotalAmount)
	}
	if got := loadBookQuantity(t, client, book.ID); got != 0 {
		t.Fatalf("expected quantity 0, got %d", got)
	}
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	t.Parallel()

	svc, client := newTestService(t)
	ctx := context.Background()
	customer := seedCustomer(t, client, "Corner Stationers")
	book := seedBook(t, client, "Scarce Title", 15)

	_, err := svc.RecordSale(ctx, RecordSaleInput{
		CustomerID: customer.ID,
		BookID:     book.ID,
		Quantity:   20,
		UnitPrice:  decimal.NewFromInt(4),
	})
	assertCode(t, err, pkgerrors.CodeInsufficientStock)
	if got := loadBookQuantity(t, client, book.ID); got != 15 {
		t.Fatalf("expected quantity unchanged at 15, got %d", got)
	}

	var count int64
	if err := client.DB().Model(&models.Sale{}).Count(&count).Error; err != nil {
		t.Fatalf("count sales: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no sale rows, got %d", count)
	}
}

func TestRecordReturnRestoresStock(t *testing.T) {
	t.Parallel()

	svc, client := newTestService(t)
	ctx := context.Background()
	customer := seedCustomer(t, client, "Dealer One")
	book := seedBook(t, client, "Returnable", 15)

	sale, err := svc.RecordSale(ctx, RecordSaleInput{
		CustomerID: customer.ID,
		BookID:     book.ID,
		Quantity:   15,
		UnitPrice:  decimal.NewFromInt(2),
	})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}

	ret, err := svc.RecordReturn(ctx, RecordReturnInput{SaleID: sale.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("record return: %v", err)
	}
	if ret.ProcessedAt.IsZero() {
		t.Fatal("expected processed_at to be set")
	}
	if got := loadBookQuantity(t, client, book.ID); got != 3 {
		t.Fatalf("expected quantity 3, got %d", got)
	}

	// 3 already returned; 13 more would exceed the 15 sold.
	_, err = svc.RecordReturn(ctx, RecordReturnInput{SaleID: sale.ID, Quantity: 13})
	assertCode(t, err, pkgerrors.CodeReturnExceedsSold)
	if got := loadBookQuantity(t, client, book.ID); got != 3 {
		t.Fatalf("expected quantity unchanged at 3, got %d", got)
	}
}

func TestRecordReturnUnknownSale(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.RecordReturn(context.Background(), RecordReturnInput{SaleID: uuid.New(), Quantity: 1})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestQuantityConservation(t *testing.T) {
	t.Parallel()

	svc, client := newTestService(t)
	ctx := context.Background()
	vendor := seedVendor(t, client, "Wholesale Books")
	customer := seedCustomer(t, client, "City School")
	book := seedBook(t, client, "Conserved", 10)

	mustPurchase := func(qty int) {
		t.Helper()
		if _, err := svc.RecordPurchase(ctx, RecordPurchaseInput{
			VendorID: vendor.ID, BookID: book.ID, Quantity: qty, UnitCost: decimal.NewFromInt(1),
		}); err != nil {
			t.Fatalf("purchase %d: %v", qty, err)
		}
	}
	mustSale := func(qty int) *models.Sale {
		t.Helper()
		sale, err := svc.RecordSale(ctx, RecordSaleInput{
			CustomerID: customer.ID, BookID: book.ID, Quantity: qty, UnitPrice: decimal.NewFromInt(2),
		})
		if err != nil {
			t.Fatalf("sale %d: %v", qty, err)
		}
		return sale
	}

	mustPurchase(7)
	mustPurchase(3)
	sale := mustSale(12)
	mustSale(4)
	if _, err := svc.RecordReturn(ctx, RecordReturnInput{SaleID: sale.ID, Quantity: 5}); err != nil {
		t.Fatalf("return: %v", err)
	}

	// 10 + 7 + 3 - 12 - 4 + 5
	if got := loadBookQuantity(t, client, book.ID); got != 9 {
		t.Fatalf("expected quantity 9, got %d", got)
	}
}

func TestListSalesFiltersAndOrder(t *testing.T) {
	t.Parallel()

	svc, client := newTestService(t)
	ctx := context.Background()
	customerA := seedCustomer(t, client, "Alpha School")
	customerB := seedCustomer(t, client, "Beta Dealer")
	book := seedBook(t, client, "Popular", 100)

	for i := 0; i < 3; i++ {
		if _, err := svc.RecordSale(ctx, RecordSaleInput{
			CustomerID: customerA.ID, BookID: book.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(5),
		}); err != nil {
			t.Fatalf("sale for a: %v", err)
		}
	}
	if _, err := svc.RecordSale(ctx, RecordSaleInput{
		CustomerID: customerB.ID, BookID: book.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(5),
	}); err != nil {
		t.Fatalf("sale for b: %v", err)
	}

	page, err := svc.ListSales(ctx, ListSalesInput{
		Filters: SaleFilters{CustomerID: &customerA.ID},
		Page:    pagination.Params{Skip: 0, Limit: 2},
	})
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("expected total 3, got %d", page.Total)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.Limit != 2 || page.Skip != 0 {
		t.Fatalf("unexpected page envelope: %+v", page)
	}
	for i := 1; i < len(page.Items); i++ {
		if page.Items[i].SoldAt.After(page.Items[i-1].SoldAt) {
			t.Fatal("expected sales ordered newest first")
		}
	}
}

func TestGetSaleIncludesReturns(t *testing.T) {
	t.Parallel()

	svc, client := newTestService(t)
	ctx := context.Background()
	customer := seedCustomer(t, client, "Gamma Shop")
	book := seedBook(t, client, "Tracked", 10)

	sale, err := svc.RecordSale(ctx, RecordSaleInput{
		CustomerID: customer.ID, BookID: book.ID, Quantity: 4, UnitPrice: decimal.NewFromInt(3),
	})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if _, err := svc.RecordReturn(ctx, RecordReturnInput{SaleID: sale.ID, Quantity: 2}); err != nil {
		t.Fatalf("record return: %v", err)
	}

	loaded, err := svc.GetSale(ctx, sale.ID)
	if err != nil {
		t.Fatalf("get sale: %v", err)
	}
	if len(loaded.Returns) != 1 || loaded.Returns[0].Quantity != 2 {
		t.Fatalf("expected one return of 2, got %+v", loaded.Returns)
	}
	if loaded.Customer == nil || loaded.Book == nil {
		t.Fatal("expected customer and book preloaded")
	}
}

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	dsn := "file:ledger_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Book{},
		&models.Vendor{},
		&models.Customer{},
		&models.Purchase{},
		&models.Sale{},
		&models.SalesReturn{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	client := db.NewFromConn(conn)
	svc, err := NewService(NewRepository(conn), client)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, client
}

func seedBook(t *testing.T, client *db.Client, title string, quantity int) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:    title,
		Author:   "Test Author",
		Quantity: quantity,
		Price:    decimal.NewFromInt(10),
	}
	if err := client.DB().Create(book).Error; err != nil {
		t.Fatalf("seed book: %v", err)
	}
	return book
}

func seedVendor(t *testing.T, client *db.Client, name string) *models.Vendor {
	t.Helper()
	vendor := &models.Vendor{Name: name}
	if err := client.DB().Create(vendor).Error; err != nil {
		t.Fatalf("seed vendor: %v", err)
	}
	return vendor
}

func seedCustomer(t *testing.T, client *db.Client, name string) *models.Customer {
	t.Helper()
	customer := &models.Customer{Name: name, Category: enums.CustomerCategorySchool}
	if err := client.DB().Create(customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}

func loadBookQuantity(t *testing.T, client *db.Client, id uuid.UUID) int {
	t.Helper()
	var book models.Book
	if err := client.DB().First(&book, "id = ?", id).Error; err != nil {
		t.Fatalf("load book: %v", err)
	}
	return book.Quantity
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
