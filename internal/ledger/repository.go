package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookstock/inventory-backend/pkg/db"
	"github.com/bookstock/inventory-backend/pkg/db/models"
	"github.com/bookstock/inventory-backend/pkg/pagination"
)

// PurchaseFilters narrows purchase list queries.
type PurchaseFilters struct {
	VendorID *uuid.UUID
	BookID   *uuid.UUID
}

// SaleFilters narrows sale list queries.
type SaleFilters struct {
	CustomerID *uuid.UUID
	BookID     *uuid.UUID
}

// ReturnFilters narrows sales-return list queries.
type ReturnFilters struct {
	SaleID *uuid.UUID
}

// Repository manages persistence for ledger rows and the book quantity
// counter they adjust.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindVendor loads the vendor or returns gorm.ErrRecordNotFound.
func (r *Repository) FindVendor(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// FindCustomer loads the customer or returns gorm.ErrRecordNotFound.
func (r *Repository) FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindBookForUpdate loads the book under a row lock so concurrent ledger
// operations on the same book serialize.
func (r *Repository) FindBookForUpdate(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	var book models.Book
	if err := db.LockForUpdate(r.db.WithContext(ctx)).First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindSaleForUpdate loads the sale under a row lock so concurrent returns
// against the same sale serialize.
func (r *Repository) FindSaleForUpdate(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	if err := db.LockForUpdate(r.db.WithContext(ctx)).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// AdjustBookQuantity applies a delta to the book's quantity counter. Callers
// must hold the row lock taken by FindBookForUpdate.
func (r *Repository) AdjustBookQuantity(ctx context.Context, bookID uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", bookID).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

// SumReturnedQuantity totals all return quantities recorded against a sale.
func (r *Repository) SumReturnedQuantity(ctx context.Context, saleID uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.SalesReturn{}).
		Where("sale_id = ?", saleID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

// CreatePurchase inserts a purchase row.
func (r *Repository) CreatePurchase(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

// GetPurchase loads a purchase with its vendor and book.
func (r *Repository) GetPurchase(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Preload("Book").
		First(&purchase, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// ListPurchases returns a page of purchases newest-dated first plus the total
// matching count.
func (r *Repository) ListPurchases(ctx context.Context, filters PurchaseFilters, params pagination.Params) ([]models.Purchase, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Purchase{})
	if filters.VendorID != nil {
		base = base.Where("vendor_id = ?", *filters.VendorID)
	}
	if filters.BookID != nil {
		base = base.Where("book_id = ?", *filters.BookID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Purchase
	err := base.Session(&gorm.Session{}).
		Preload("Vendor").
		Preload("Book").
		Order("purchased_at DESC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CreateSale inserts a sale row.
func (r *Repository) CreateSale(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

// GetSale loads a sale with its customer, book, and returns.
func (r *Repository) GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Book").
		Preload("Returns").
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListSales returns a page of sales newest-dated first plus the total
// matching count.
func (r *Repository) ListSales(ctx context.Context, filters SaleFilters, params pagination.Params) ([]models.Sale, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Sale{})
	if filters.CustomerID != nil {
		base = base.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.BookID != nil {
		base = base.Where("book_id = ?", *filters.BookID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Sale
	err := base.Session(&gorm.Session{}).
		Preload("Customer").
		Preload("Book").
		Preload("Returns").
		Order("sold_at DESC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CreateReturn inserts a sales-return row.
func (r *Repository) CreateReturn(ctx context.Context, ret *models.SalesReturn) error {
	return r.db.WithContext(ctx).Create(ret).Error
}

// GetReturn loads a sales return with its sale, and the sale's customer
// and book.
func (r *Repository) GetReturn(ctx context.Context, id uuid.UUID) (*models.SalesReturn, error) {
	var ret models.SalesReturn
	err := r.db.WithContext(ctx).
		Preload("Sale").
		Preload("Sale.Customer").
		Preload("Sale.Book").
		First(&ret, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// ListReturns returns a page of sales returns newest-processed first plus
// the total matching count.
func (r *Repository) ListReturns(ctx context.Context, filters ReturnFilters, params pagination.Params) ([]models.SalesReturn, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.SalesReturn{})
	if filters.SaleID != nil {
		base = base.Where("sale_id = ?", *filters.SaleID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SalesReturn
	err := base.Session(&gorm.Session{}).
		Preload("Sale").
		Preload("Sale.Customer").
		Preload("Sale.Book").
		Order("processed_at DESC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
