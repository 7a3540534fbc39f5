package books

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bookstock/inventory-backend/pkg/db"
	"github.com/bookstock/inventory-backend/pkg/db/models"
	pkgerrors "github.com/bookstock/inventory-backend/pkg/errors"
	"github.com/bookstock/inventory-backend/pkg/pagination"
)

// Service exposes catalog management for books.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Book, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Book, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, input ListInput) (*pagination.Page[models.Book], error)
}

// CreateInput holds the validated payload to create a book.
type CreateInput struct {
	Title    string
	Author   string
	ISBN     *string
	Quantity int
	Price    decimal.Decimal
}

// UpdateInput holds optional mutation values; only present fields apply.
type UpdateInput struct {
	Title    *string
	Author   *string
	ISBN     *string
	Quantity *int
	Price    *decimal.Decimal
}

// ListInput pairs pagination with the book list filters.
type ListInput struct {
	Filters ListFilters
	Page    pagination.Params
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a book service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("book repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Book, error) {
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	book := &models.Book{
		Title:    input.Title,
		Author:   input.Author,
		ISBN:     input.ISBN,
		Quantity: input.Quantity,
		Price:    input.Price,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.ISBN != nil {
			existing, err := repo.FindByISBN(ctx, *input.ISBN)
			if err != nil {
				return err
			}
			if existing != nil {
				return duplicateISBN(*input.ISBN)
			}
		}
		return repo.Create(ctx, book)
	})
	if err != nil {
		return nil, classifyWriteError(err, input.ISBN)
	}
	return book, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, err
	}
	return book, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Book, error) {
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	var book *models.Book
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
			}
			return err
		}

		if input.ISBN != nil {
			existing, err := repo.FindByISBN(ctx, *input.ISBN)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != loaded.ID {
				return duplicateISBN(*input.ISBN)
			}
			loaded.ISBN = input.ISBN
		}
		if input.Title != nil {
			loaded.Title = *input.Title
		}
		if input.Author != nil {
			loaded.Author = *input.Author
		}
		if input.Quantity != nil {
			loaded.Quantity = *input.Quantity
		}
		if input.Price != nil {
			loaded.Price = *input.Price
		}

		if err := repo.Save(ctx, loaded); err != nil {
			return err
		}
		book = loaded
		return nil
	})
	if err != nil {
		return nil, classifyWriteError(err, input.ISBN)
	}
	return book, nil
}

// Delete removes a book unless purchases or sales reference it. Allowing the
// delete would orphan ledger history, so the guard mirrors vendors/customers.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
			}
			return err
		}
		dependents, err := repo.CountLedgerRows(ctx, id)
		if err != nil {
			return err
		}
		if dependents > 0 {
			return pkgerrors.New(pkgerrors.CodeHasDependents,
				"cannot delete book with existing purchase or sale records").
				WithDetails(map[string]any{"dependents": dependents})
		}
		return repo.Delete(ctx, id)
	})
}

func (s *service) List(ctx context.Context, input ListInput) (*pagination.Page[models.Book], error) {
	params := input.Page.Normalize()
	rows, total, err := s.repo.List(ctx, input.Filters, params)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(rows, total, params)
	return &page, nil
}

func duplicateISBN(isbn string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeDuplicateKey, "ISBN already exists").
		WithDetails(map[string]any{"isbn": isbn})
}

// classifyWriteError maps a storage-level unique violation to the same
// duplicate error the pre-check produces, closing the race window between
// check and insert.
func classifyWriteError(err error, isbn *string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if db.IsUniqueViolation(err) {
		if isbn != nil {
			return duplicateISBN(*isbn)
		}
		return pkgerrors.New(pkgerrors.CodeDuplicateKey, "ISBN already exists")
	}
	return err
}
