package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bookstock/inventory-backend/pkg/db"
	"github.com/bookstock/inventory-backend/pkg/db/models"
	pkgerrors "github.com/bookstock/inventory-backend/pkg/errors"
	"github.com/bookstock/inventory-backend/pkg/pagination"
)

// Service exposes the inventory ledger: purchases add stock, sales deduct
// it, and sales returns restore it. Every mutation adjusts the book's
// quantity in the same transaction as the ledger row insert.
type Service interface {
	RecordPurchase(ctx context.Context, input RecordPurchaseInput) (*models.Purchase, error)
	GetPurchase(ctx context.Context, id uuid.UUID) (*models.Purchase, error)
	ListPurchases(ctx context.Context, input ListPurchasesInput) (*pagination.Page[models.Purchase], error)

	RecordSale(ctx context.Context, input RecordSaleInput) (*models.Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListSales(ctx context.Context, input ListSalesInput) (*pagination.Page[models.Sale], error)

	RecordReturn(ctx context.Context, input RecordReturnInput) (*models.SalesReturn, error)
	GetReturn(ctx context.Context, id uuid.UUID) (*models.SalesReturn, error)
	ListReturns(ctx context.Context, input ListReturnsInput) (*pagination.Page[models.SalesReturn], error)
}

// RecordPurchaseInput holds the validated payload to record a purchase.
type RecordPurchaseInput struct {
	VendorID    uuid.UUID
	BookID      uuid.UUID
	Quantity    int
	UnitCost    decimal.Decimal
	PurchasedAt *time.Time
	Notes       *string
}

// RecordSaleInput holds the validated payload to record a sale.
type RecordSaleInput struct {
	CustomerID uuid.UUID
	BookID     uuid.UUID
	Quantity   int
	UnitPrice  decimal.Decimal
	SoldAt     *time.Time
	Notes      *string
}

// RecordReturnInput holds the validated payload to record a sales return.
type RecordReturnInput struct {
	SaleID   uuid.UUID
	Quantity int
	Reason   *string
}

// ListPurchasesInput pairs pagination with the purchase list filters.
type ListPurchasesInput struct {
	Filters PurchaseFilters
	Page    pagination.Params
}

// ListSalesInput pairs pagination with the sale list filters.
type ListSalesInput struct {
	Filters SaleFilters
	Page    pagination.Params
}

// ListReturnsInput pairs pagination with the sales-return list filters.
type ListReturnsInput struct {
	Filters ReturnFilters
	Page    pagination.Params
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	now      func() time.Time
}

// NewService constructs a ledger service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, now: time.Now}, nil
}

func (s *service) RecordPurchase(ctx context.Context, input RecordPurchaseInput) (*models.Purchase, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.UnitCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cost must not be negative")
	}

	purchasedAt := s.now().UTC()
	if input.PurchasedAt != nil {
		purchasedAt = input.PurchasedAt.UTC()
	}

	purchase := &models.Purchase{
		VendorID:    input.VendorID,
		BookID:      input.BookID,
		Quantity:    input.Quantity,
		UnitCost:    input.UnitCost,
		TotalCost:   lineTotal(input.UnitCost, input.Quantity),
		PurchasedAt: purchasedAt,
		Notes:       input.Notes,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindVendor(ctx, input.VendorID); err != nil {
			return notFound(err, "vendor not found")
		}
		book, err := repo.FindBookForUpdate(ctx, input.BookID)
		if err != nil {
			return notFound(err, "book not found")
		}
		if err := repo.CreatePurchase(ctx, purchase); err != nil {
			return err
		}
		return repo.AdjustBookQuantity(ctx, book.ID, input.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetPurchase(ctx, purchase.ID)
}

func (s *service) GetPurchase(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	purchase, err := s.repo.GetPurchase(ctx, id)
	if err != nil {
		return nil, notFound(err, "purchase not found")
	}
	return purchase, nil
}

func (s *service) ListPurchases(ctx context.Context, input ListPurchasesInput) (*pagination.Page[models.Purchase], error) {
	params := input.Page.Normalize()
	rows, total, err := s.repo.ListPurchases(ctx, input.Filters, params)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(rows, total, params)
	return &page, nil
}

func (s *service) RecordSale(ctx context.Context, input RecordSaleInput) (*models.Sale, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}

	soldAt := s.now().UTC()
	if input.SoldAt != nil {
		soldAt = input.SoldAt.UTC()
	}

	sale := &models.Sale{
		CustomerID:  input.CustomerID,
		BookID:      input.BookID,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
		TotalAmount: lineTotal(input.UnitPrice, input.Quantity),
		SoldAt:      soldAt,
		Notes:       input.Notes,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindCustomer(ctx, input.CustomerID); err != nil {
			return notFound(err, "customer not found")
		}
		book, err := repo.FindBookForUpdate(ctx, input.BookID)
		if err != nil {
			return notFound(err, "book not found")
		}
		if book.Quantity < input.Quantity {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for sale").
				WithDetails(map[string]any{
					"available": book.Quantity,
					"requested": input.Quantity,
				})
		}
		if err := repo.CreateSale(ctx, sale); err != nil {
			return err
		}
		return repo.AdjustBookQuantity(ctx, book.ID, -input.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetSale(ctx, sale.ID)
}

func (s *service) GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale, err := s.repo.GetSale(ctx, id)
	if err != nil {
		return nil, notFound(err, "sale not found")
	}
	return sale, nil
}

func (s *service) ListSales(ctx context.Context, input ListSalesInput) (*pagination.Page[models.Sale], error) {
	params := input.Page.Normalize()
	rows, total, err := s.repo.ListSales(ctx, input.Filters, params)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(rows, total, params)
	return &page, nil
}

func (s *service) RecordReturn(ctx context.Context, input RecordReturnInput) (*models.SalesReturn, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	ret := &models.SalesReturn{
		SaleID:      input.SaleID,
		Quantity:    input.Quantity,
		Reason:      input.Reason,
		ProcessedAt: s.now().UTC(),
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		sale, err := repo.FindSaleForUpdate(ctx, input.SaleID)
		if err != nil {
			return notFound(err, "sale not found")
		}
		returned, err := repo.SumReturnedQuantity(ctx, sale.ID)
		if err != nil {
			return err
		}
		if returned+input.Quantity > sale.Quantity {
			return pkgerrors.New(pkgerrors.CodeReturnExceedsSold, "return quantity exceeds sold quantity").
				WithDetails(map[string]any{
					"sold":             sale.Quantity,
					"already_returned": returned,
					"requested":        input.Quantity,
				})
		}
		book, err := repo.FindBookForUpdate(ctx, sale.BookID)
		if err != nil {
			return notFound(err, "book not found for sale")
		}
		if err := repo.CreateReturn(ctx, ret); err != nil {
			return err
		}
		return repo.AdjustBookQuantity(ctx, book.ID, input.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetReturn(ctx, ret.ID)
}

func (s *service) GetReturn(ctx context.Context, id uuid.UUID) (*models.SalesReturn, error) {
	ret, err := s.repo.GetReturn(ctx, id)
	if err != nil {
		return nil, notFound(err, "sales return not found")
	}
	return ret, nil
}

func (s *service) ListReturns(ctx context.Context, input ListReturnsInput) (*pagination.Page[models.SalesReturn], error) {
	params := input.Page.Normalize()
	rows, total, err := s.repo.ListReturns(ctx, input.Filters, params)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(rows, total, params)
	return &page, nil
}

func lineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}

func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return err
}
