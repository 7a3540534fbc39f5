package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/bookstock/inventory-backend/api/responses"
	"github.com/bookstock/inventory-backend/api/validators"
	customersvc "github.com/bookstock/inventory-backend/internal/customers"
	"github.com/bookstock/inventory-backend/pkg/db/models"
	"github.com/bookstock/inventory-backend/pkg/enums"
	pkgerrors "github.com/bookstock/inventory-backend/pkg/errors"
	"github.com/bookstock/inventory-backend/pkg/logger"
	"github.com/bookstock/inventory-backend/pkg/pagination"
)

type createCustomerRequest struct {
	Name           string  `json:"name" validate:"required"`
	ContactAddress *string `json:"contact_address,omitempty"`
	ContactPerson  *string `json:"contact_person,omitempty"`
	ContactNumber  *string `json:"contact_number,omitempty"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	TaxNumber      *string `json:"tax_number,omitempty"`
	Category       string  `json:"category" validate:"required"`
}

type updateCustomerRequest struct {
	Name           *string `json:"name,omitempty"`
	ContactAddress *string `json:"contact_address,omitempty"`
	ContactPerson  *string `json:"contact_person,omitempty"`
	ContactNumber  *string `json:"contact_number,omitempty"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	TaxNumber      *string `json:"tax_number,omitempty"`
	Category       *string `json:"category,omitempty"`
}

type customerResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ContactAddress *string   `json:"contact_address,omitempty"`
	ContactPerson  *string   `json:"contact_person,omitempty"`
	ContactNumber  *string   `json:"contact_number,omitempty"`
	Email          *string   `json:"email,omitempty"`
	TaxNumber      *string   `json:"tax_number,omitempty"`
	Category       string    `json:"category"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toCustomerResponse(customer *models.Customer) *customerResponse {
	if customer == nil {
		return nil
	}
	return &customerResponse{
		ID:             customer.ID.String(),
		Name:           customer.Name,
		ContactAddress: customer.ContactAddress,
		ContactPerson:  customer.ContactPerson,
		ContactNumber:  customer.ContactNumber,
		Email:          customer.Email,
		TaxNumber:      customer.TaxNumber,
		Category:       customer.Category.String(),
		CreatedAt:      customer.CreatedAt,
		UpdatedAt:      customer.UpdatedAt,
	}
}

// CreateCustomer handles POST /customers.
func CreateCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseCustomerCategory(strings.TrimSpace(payload.Category))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
			return
		}

		customer, err := svc.Create(r.Context(), customersvc.CreateInput{
			Name:           strings.TrimSpace(payload.Name),
			ContactAddress: normalizeOptional(payload.ContactAddress),
			ContactPerson:  normalizeOptional(payload.ContactPerson),
			ContactNumber:  normalizeOptional(payload.ContactNumber),
			Email:          normalizeOptional(payload.Email),
			TaxNumber:      normalizeOptional(payload.TaxNumber),
			Category:       category,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toCustomerResponse(customer))
	}
}

// GetCustomer handles GET /customers/{customerId}.
func GetCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathUUID(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toCustomerResponse(customer))
	}
}

// UpdateCustomer handles PUT /customers/{customerId}.
func UpdateCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathUUID(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var category *enums.CustomerCategory
		if payload.Category != nil {
			parsed, err := enums.ParseCustomerCategory(strings.TrimSpace(*payload.Category))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			category = &parsed
		}

		customer, err := svc.Update(r.Context(), id, customersvc.UpdateInput{
			Name:           trimOptional(payload.Name),
			ContactAddress: payload.ContactAddress,
			ContactPerson:  payload.ContactPerson,
			ContactNumber:  payload.ContactNumber,
			Email:          payload.Email,
			TaxNumber:      payload.TaxNumber,
			Category:       category,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toCustomerResponse(customer))
	}
}

// DeleteCustomer handles DELETE /customers/{customerId}. Customers with
// sale history are rejected.
func DeleteCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathUUID(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}

// ListCustomers handles GET /customers with q/category/skip/limit query
// parameters.
func ListCustomers(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var category *enums.CustomerCategory
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			parsed, err := enums.ParseCustomerCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			category = &parsed
		}

		page, err := svc.List(r.Context(), customersvc.ListInput{
			Filters: customersvc.ListFilters{
				Query:    r.URL.Query().Get("q"),
				Category: category,
			},
			Page: params,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]*customerResponse, 0, len(page.Items))
		for i := range page.Items {
			items = append(items, toCustomerResponse(&page.Items[i]))
		}
		responses.WriteSuccess(w, pagination.Page[*customerResponse]{
			Items: items,
			Total: page.Total,
			Skip:  page.Skip,
			Limit: page.Limit,
		})
	}
}
