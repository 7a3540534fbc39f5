package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bookstock/inventory-backend/pkg/db/models"
	"github.com/bookstock/inventory-backend/pkg/pagination"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:ledger_repo_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Book{},
		&models.Vendor{},
		&models.Customer{},
		&models.Purchase{},
		&models.Sale{},
		&models.SalesReturn{},
	))
	return conn
}

func TestListPurchasesFilterAndOrder(t *testing.T) {
	t.Parallel()

	conn := setupLedgerTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	vendorA := &models.Vendor{Name: "Vendor A"}
	vendorB := &models.Vendor{Name: "Vendor B"}
	book := &models.Book{Title: "T", Author: "A", Price: decimal.NewFromInt(1)}
	require.NoError(t, conn.Create(vendorA).Error)
	require.NoError(t, conn.Create(vendorB).Error)
	require.NoError(t, conn.Create(book).Error)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seed := []models.Purchase{
		{VendorID: vendorA.ID, BookID: book.ID, Quantity: 1, UnitCost: decimal.NewFromInt(1), TotalCost: decimal.NewFromInt(1), PurchasedAt: base},
		{VendorID: vendorA.ID, BookID: book.ID, Quantity: 2, UnitCost: decimal.NewFromInt(1), TotalCost: decimal.NewFromInt(2), PurchasedAt: base.Add(48 * time.Hour)},
		{VendorID: vendorB.ID, BookID: book.ID, Quantity: 3, UnitCost: decimal.NewFromInt(1), TotalCost: decimal.NewFromInt(3), PurchasedAt: base.Add(24 * time.Hour)},
	}
	for i := range seed {
		require.NoError(t, repo.CreatePurchase(ctx, &seed[i]))
	}

	rows, total, err := repo.ListPurchases(ctx, PurchaseFilters{VendorID: &vendorA.ID}, pagination.Params{Skip: 0, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 2)
	// newest purchased_at first
	assert.Equal(t, 2, rows[0].Quantity)
	assert.Equal(t, 1, rows[1].Quantity)
	require.NotNil(t, rows[0].Vendor)
	assert.Equal(t, "Vendor A", rows[0].Vendor.Name)

	rows, total, err = repo.ListPurchases(ctx, PurchaseFilters{}, pagination.Params{Skip: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Quantity)
}

func TestSumReturnedQuantity(t *testing.T) {
	t.Parallel()

	conn := setupLedgerTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	customer := &models.Customer{Name: "C", Category: "school"}
	book := &models.Book{Title: "T", Author: "A", Price: decimal.NewFromInt(1)}
	require.NoError(t, conn.Create(customer).Error)
	require.NoError(t, conn.Create(book).Error)

	sale := &models.Sale{
		CustomerID:  customer.ID,
		BookID:      book.ID,
		Quantity:    10,
		UnitPrice:   decimal.NewFromInt(2),
		TotalAmount: decimal.NewFromInt(20),
		SoldAt:      time.Now().UTC(),
	}
	require.NoError(t, repo.CreateSale(ctx, sale))

	total, err := repo.SumReturnedQuantity(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	for _, qty := range []int{2, 3} {
		require.NoError(t, repo.CreateReturn(ctx, &models.SalesReturn{
			SaleID:      sale.ID,
			Quantity:    qty,
			ProcessedAt: time.Now().UTC(),
		}))
	}

	total, err = repo.SumReturnedQuantity(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	other, err := repo.SumReturnedQuantity(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, other)
}

func TestAdjustBookQuantity(t *testing.T) {
	t.Parallel()

	conn := setupLedgerTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	book := &models.Book{Title: "T", Author: "A", Quantity: 4, Price: decimal.NewFromInt(1)}
	require.NoError(t, conn.Create(book).Error)

	require.NoError(t, repo.AdjustBookQuantity(ctx, book.ID, 3))
	require.NoError(t, repo.AdjustBookQuantity(ctx, book.ID, -2))

	var loaded models.Book
	require.NoError(t, conn.First(&loaded, "id = ?", book.ID).Error)
	assert.Equal(t, 5, loaded.Quantity)
}
