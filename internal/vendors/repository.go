package vendors

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookstock/inventory-backend/pkg/db/models"
	"github.com/bookstock/inventory-backend/pkg/pagination"
)

// ListFilters narrows vendor list queries.
type ListFilters struct {
	// Query matches the vendor name case-insensitively.
	Query string
}

// Repository wires together vendor persistence helpers.
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

// FindByID loads the vendor or returns gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// FindByName loads the vendor with the exact name, nil when absent.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.WithContext(ctx).First(&vendor, "name = ?", name).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// Create inserts a new vendor row.
func (r *Repository) Create(ctx context.Context, vendor *models.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

// Save persists all fields of an existing vendor row.
func (r *Repository) Save(ctx context.Context, vendor *models.Vendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}

// Delete removes a vendor by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Vendor{}).Error
}

// CountPurchases returns how many purchases reference the vendor.
func (r *Repository) CountPurchases(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("vendor_id = ?", vendorID).
		Count(&count).Error
	return count, err
}

// List returns a page of vendors newest first plus the total matching count.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Vendor, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Vendor{})
	if q := strings.TrimSpace(filters.Query); q != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Vendor
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
