package vendors

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookstock/inventory-backend/pkg/db"
	"github.com/bookstock/inventory-backend/pkg/db/models"
	pkgerrors "github.com/bookstock/inventory-backend/pkg/errors"
	"github.com/bookstock/inventory-backend/pkg/pagination"
)

// Service exposes vendor management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Vendor, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Vendor, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, input ListInput) (*pagination.Page[models.Vendor], error)
}

// CreateInput holds the validated payload to create a vendor.
type CreateInput struct {
	Name           string
	ContactAddress *string
	ContactPerson  *string
	ContactNumber  *string
	Email          *string
	TaxNumber      *string
}

// UpdateInput holds optional mutation values; only present fields apply.
type UpdateInput struct {
	Name           *string
	ContactAddress *string
	ContactPerson  *string
	ContactNumber  *string
	Email          *string
	TaxNumber      *string
}

// ListInput pairs pagination with the vendor list filters.
type ListInput struct {
	Filters ListFilters
	Page    pagination.Params
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a vendor service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Vendor, error) {
	vendor := &models.Vendor{
		Name:           input.Name,
		ContactAddress: input.ContactAddress,
		ContactPerson:  input.ContactPerson,
		ContactNumber:  input.ContactNumber,
		Email:          input.Email,
		TaxNumber:      input.TaxNumber,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindByName(ctx, input.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return duplicateName(input.Name)
		}
		return repo.Create(ctx, vendor)
	})
	if err != nil {
		return nil, classifyWriteError(err, input.Name)
	}
	return vendor, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, err
	}
	return vendor, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Vendor, error) {
	var vendor *models.Vendor
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
			}
			return err
		}

		if input.Name != nil {
			existing, err := repo.FindByName(ctx, *input.Name)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != loaded.ID {
				return duplicateName(*input.Name)
			}
			loaded.Name = *input.Name
		}
		applyContactPatch(loaded, input)

		if err := repo.Save(ctx, loaded); err != nil {
			return err
		}
		vendor = loaded
		return nil
	})
	if err != nil {
		name := ""
		if input.Name != nil {
			name = *input.Name
		}
		return nil, classifyWriteError(err, name)
	}
	return vendor, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
			}
			return err
		}
		purchases, err := repo.CountPurchases(ctx, id)
		if err != nil {
			return err
		}
		if purchases > 0 {
			return pkgerrors.New(pkgerrors.CodeHasDependents,
				"cannot delete vendor with existing purchase records").
				WithDetails(map[string]any{"purchases": purchases})
		}
		return repo.Delete(ctx, id)
	})
}

func (s *service) List(ctx context.Context, input ListInput) (*pagination.Page[models.Vendor], error) {
	params := input.Page.Normalize()
	rows, total, err := s.repo.List(ctx, input.Filters, params)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(rows, total, params)
	return &page, nil
}

func applyContactPatch(vendor *models.Vendor, input UpdateInput) {
	if input.ContactAddress != nil {
		vendor.ContactAddress = input.ContactAddress
	}
	if input.ContactPerson != nil {
		vendor.ContactPerson = input.ContactPerson
	}
	if input.ContactNumber != nil {
		vendor.ContactNumber = input.ContactNumber
	}
	if input.Email != nil {
		vendor.Email = input.Email
	}
	if input.TaxNumber != nil {
		vendor.TaxNumber = input.TaxNumber
	}
}

func duplicateName(name string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeDuplicateKey, "vendor name already exists").
		WithDetails(map[string]any{"name": name})
}

func classifyWriteError(err error, name string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if db.IsUniqueViolation(err) {
		return duplicateName(name)
	}
	return err
}
