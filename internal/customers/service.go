package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookstock/inventory-backend/pkg/db"
	"github.com/bookstock/inventory-backend/pkg/db/models"
	"github.com/bookstock/inventory-backend/pkg/enums"
	pkgerrors "github.com/bookstock/inventory-backend/pkg/errors"
	"github.com/bookstock/inventory-backend/pkg/pagination"
)

// Service exposes customer management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, input ListInput) (*pagination.Page[models.Customer], error)
}

// CreateInput holds the validated payload to create a customer.
type CreateInput struct {
	Name           string
	ContactAddress *string
	ContactPerson  *string
	ContactNumber  *string
	Email          *string
	TaxNumber      *string
	Category       enums.CustomerCategory
}

// UpdateInput holds optional mutation values; only present fields apply.
type UpdateInput struct {
	Name           *string
	ContactAddress *string
	ContactPerson  *string
	ContactNumber  *string
	Email          *string
	TaxNumber      *string
	Category       *enums.CustomerCategory
}

// ListInput pairs pagination with the customer list filters.
type ListInput struct {
	Filters ListFilters
	Page    pagination.Params
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a customer service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Customer, error) {
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid customer category %q", input.Category))
	}

	customer := &models.Customer{
		Name:           input.Name,
		ContactAddress: input.ContactAddress,
		ContactPerson:  input.ContactPerson,
		ContactNumber:  input.ContactNumber,
		Email:          input.Email,
		TaxNumber:      input.TaxNumber,
		Category:       input.Category,
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
		return repo.Create(ctx, customer)
	})
	if err != nil {
		return nil, classifyWriteError(err, input.Name)
	}
	return customer, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, err
	}
	return customer, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Customer, error) {
	if input.Category != nil && !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid customer category %q", *input.Category))
	}

	var customer *models.Customer
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
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
		if input.Category != nil {
			loaded.Category = *input.Category
		}
		applyContactPatch(loaded, input)

		if err := repo.Save(ctx, loaded); err != nil {
			return err
		}
		customer = loaded
		return nil
	})
	if err != nil {
		name := ""
		if input.Name != nil {
			name = *input.Name
		}
		return nil, classifyWriteError(err, name)
	}
	return customer, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
			}
			return err
		}
		sales, err := repo.CountSales(ctx, id)
		if err != nil {
			return err
		}
		if sales > 0 {
			return pkgerrors.New(pkgerrors.CodeHasDependents,
				"cannot delete customer with existing sales records").
				WithDetails(map[string]any{"sales": sales})
		}
		return repo.Delete(ctx, id)
	})
}

func (s *service) List(ctx context.Context, input ListInput) (*pagination.Page[models.Customer], error) {
	params := input.Page.Normalize()
	rows, total, err := s.repo.List(ctx, input.Filters, params)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(rows, total, params)
	return &page, nil
}

func applyContactPatch(customer *models.Customer, input UpdateInput) {
	if input.ContactAddress != nil {
		customer.ContactAddress = input.ContactAddress
	}
	if input.ContactPerson != nil {
		customer.ContactPerson = input.ContactPerson
	}
	if input.ContactNumber != nil {
		customer.ContactNumber = input.ContactNumber
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.TaxNumber != nil {
		customer.TaxNumber = input.TaxNumber
	}
}

func duplicateName(name string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeDuplicateKey, "customer name already exists").
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
