package books

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookstock/inventory-backend/pkg/db/models"
	"github.com/bookstock/inventory-backend/pkg/pagination"
)

// ListFilters narrows book list queries.
type ListFilters struct {
	// Query matches title, author, or ISBN case-insensitively.
	Query string
}

// Repository wires together book persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
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

// FindByID loads the book or returns gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindByISBN loads the book holding the given ISBN, nil when absent.
func (r *Repository) FindByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).First(&book, "isbn = ?", isbn).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &book, nil
}

// Create inserts a new book row.
func (r *Repository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// Save persists all fields of an existing book row.
func (r *Repository) Save(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

// Delete removes a book by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Book{}).Error
}

// CountLedgerRows returns how many purchases and sales reference the book.
func (r *Repository) CountLedgerRows(ctx context.Context, bookID uuid.UUID) (int64, error) {
	var purchases, sales int64
	if err := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("book_id = ?", bookID).
		Count(&purchases).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("book_id = ?", bookID).
		Count(&sales).Error; err != nil {
		return 0, err
	}
	return purchases + sales, nil
}

// List returns a page of books newest first plus the total matching count.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Book, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Book{})
	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		base = base.Where(
			"LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(isbn) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Book
	err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
