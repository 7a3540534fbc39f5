package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookstock/inventory-backend/pkg/db/models"
	"github.com/bookstock/inventory-backend/pkg/enums"
	"github.com/bookstock/inventory-backend/pkg/pagination"
)

// ListFilters narrows customer list queries.
type ListFilters struct {
	// Query matches the customer name case-insensitively.
	Query string
	// Category restricts to one customer category when set.
	Category *enums.CustomerCategory
}

// Repository wires together customer persistence helpers.
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

// FindByID loads the customer or returns gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByName loads the customer with the exact name, nil when absent.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, "name = ?", name).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// Create inserts a new customer row.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// Save persists all fields of an existing customer row.
func (r *Repository) Save(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// Delete removes a customer by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Customer{}).Error
}

// CountSales returns how many sales reference the customer.
func (r *Repository) CountSales(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count, err
}

// List returns a page of customers newest first plus the total matching count.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Customer, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Customer{})
	if q := strings.TrimSpace(filters.Query); q != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if filters.Category != nil {
		base = base.Where("category = ?", *filters.Category)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Customer
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
