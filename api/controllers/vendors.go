package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/bookstock/inventory-backend/api/responses"
	"github.com/bookstock/inventory-backend/api/validators"
	vendorsvc "github.com/bookstock/inventory-backend/internal/vendors"
	"github.com/bookstock/inventory-backend/pkg/db/models"
	"github.com/bookstock/inventory-backend/pkg/logger"
	"github.com/bookstock/inventory-backend/pkg/pagination"
)

type createVendorRequest struct {
	Name           string  `json:"name" validate:"required"`
	ContactAddress *string `json:"contact_address,omitempty"`
	ContactPerson  *string `json:"contact_person,omitempty"`
	ContactNumber  *string `json:"contact_number,omitempty"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	TaxNumber      *string `json:"tax_number,omitempty"`
}

type updateVendorRequest struct {
	Name           *string `json:"name,omitempty"`
	ContactAddress *string `json:"contact_address,omitempty"`
	ContactPerson  *string `json:"contact_person,omitempty"`
	ContactNumber  *string `json:"contact_number,omitempty"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	TaxNumber      *string `json:"tax_number,omitempty"`
}

type vendorResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ContactAddress *string   `json:"contact_address,omitempty"`
	ContactPerson  *string   `json:"contact_person,omitempty"`
	ContactNumber  *string   `json:"contact_number,omitempty"`
	Email          *string   `json:"email,omitempty"`
	TaxNumber      *string   `json:"tax_number,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toVendorResponse(vendor *models.Vendor) *vendorResponse {
	if vendor == nil {
		return nil
	}
	return &vendorResponse{
		ID:             vendor.ID.String(),
		Name:           vendor.Name,
		ContactAddress: vendor.ContactAddress,
		ContactPerson:  vendor.ContactPerson,
		ContactNumber:  vendor.ContactNumber,
		Email:          vendor.Email,
		TaxNumber:      vendor.TaxNumber,
		CreatedAt:      vendor.CreatedAt,
		UpdatedAt:      vendor.UpdatedAt,
	}
}

// CreateVendor handles POST /vendors.
func CreateVendor(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createVendorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.Create(r.Context(), vendorsvc.CreateInput{
			Name:           strings.TrimSpace(payload.Name),
			ContactAddress: normalizeOptional(payload.ContactAddress),
			ContactPerson:  normalizeOptional(payload.ContactPerson),
			ContactNumber:  normalizeOptional(payload.ContactNumber),
			Email:          normalizeOptional(payload.Email),
			TaxNumber:      normalizeOptional(payload.TaxNumber),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toVendorResponse(vendor))
	}
}

// GetVendor handles GET /vendors/{vendorId}.
func GetVendor(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathUUID(r, "vendorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toVendorResponse(vendor))
	}
}

// UpdateVendor handles PUT /vendors/{vendorId}.
func UpdateVendor(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathUUID(r, "vendorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateVendorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.Update(r.Context(), id, vendorsvc.UpdateInput{
			Name:           trimOptional(payload.Name),
			ContactAddress: payload.ContactAddress,
			ContactPerson:  payload.ContactPerson,
			ContactNumber:  payload.ContactNumber,
			Email:          payload.Email,
			TaxNumber:      payload.TaxNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toVendorResponse(vendor))
	}
}

// DeleteVendor handles DELETE /vendors/{vendorId}. Vendors with purchase
// history are rejected.
func DeleteVendor(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathUUID(r, "vendorId")
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

// ListVendors handles GET /vendors with q/skip/limit query parameters.
func ListVendors(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), vendorsvc.ListInput{
			Filters: vendorsvc.ListFilters{Query: r.URL.Query().Get("q")},
			Page:    params,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]*vendorResponse, 0, len(page.Items))
		for i := range page.Items {
			items = append(items, toVendorResponse(&page.Items[i]))
		}
		responses.WriteSuccess(w, pagination.Page[*vendorResponse]{
			Items: items,
			Total: page.Total,
			Skip:  page.Skip,
			Limit: page.Limit,
		})
	}
}
