package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookstock/inventory-backend/api/responses"
	"github.com/bookstock/inventory-backend/api/validators"
	"github.com/bookstock/inventory-backend/internal/ledger"
	"github.com/bookstock/inventory-backend/pkg/db/models"
	"github.com/bookstock/inventory-backend/pkg/logger"
	"github.com/bookstock/inventory-backend/pkg/pagination"
)

type recordPurchaseRequest struct {
	VendorID    string           `json:"vendor_id" validate:"required,uuid"`
	BookID      string           `json:"book_id" validate:"required,uuid"`
	Quantity    int              `json:"quantity" validate:"required,min=1"`
	UnitCost    *decimal.Decimal `json:"unit_cost" validate:"required"`
	PurchasedAt *time.Time       `json:"purchased_at,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
}

type purchaseResponse struct {
	ID          string          `json:"id"`
	VendorID    string          `json:"vendor_id"`
	BookID      string          `json:"book_id"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	PurchasedAt time.Time       `json:"purchased_at"`
	Notes       *string         `json:"notes,omitempty"`
	Vendor      *vendorResponse `json:"vendor,omitempty"`
	Book        *bookResponse   `json:"book,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toPurchaseResponse(purchase *models.Purchase) *purchaseResponse {
	if purchase == nil {
		return nil
	}
	return &purchaseResponse{
		ID:          purchase.ID.String(),
		VendorID:    purchase.VendorID.String(),
		BookID:      purchase.BookID.String(),
		Quantity:    purchase.Quantity,
		UnitCost:    purchase.UnitCost,
		TotalCost:   purchase.TotalCost,
		PurchasedAt: purchase.PurchasedAt,
		Notes:       purchase.Notes,
		Vendor:      toVendorResponse(purchase.Vendor),
		Book:        toBookResponse(purchase.Book),
		CreatedAt:   purchase.CreatedAt,
	}
}

// RecordPurchase handles POST /purchases.
func RecordPurchase(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload recordPurchaseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendorID, err := parseUUIDField(payload.VendorID, "vendor_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bookID, err := parseUUIDField(payload.BookID, "book_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		purchase, err := svc.RecordPurchase(r.Context(), ledger.RecordPurchaseInput{
			VendorID:    vendorID,
			BookID:      bookID,
			Quantity:    payload.Quantity,
			UnitCost:    *payload.UnitCost,
			PurchasedAt: payload.PurchasedAt,
			Notes:       normalizeOptional(payload.Notes),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toPurchaseResponse(purchase))
	}
}

// GetPurchase handles GET /purchases/{purchaseId}.
func GetPurchase(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathUUID(r, "purchaseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		purchase, err := svc.GetPurchase(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toPurchaseResponse(purchase))
	}
}

// ListPurchases handles GET /purchases with vendor_id/book_id/skip/limit
// query parameters.
func ListPurchases(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendorID, err := validators.ParseQueryUUID(r, "vendor_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bookID, err := validators.ParseQueryUUID(r, "book_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListPurchases(r.Context(), ledger.ListPurchasesInput{
			Filters: ledger.PurchaseFilters{VendorID: vendorID, BookID: bookID},
			Page:    params,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]*purchaseResponse, 0, len(page.Items))
		for i := range page.Items {
			items = append(items, toPurchaseResponse(&page.Items[i]))
		}
		responses.WriteSuccess(w, pagination.Page[*purchaseResponse]{
			Items: items,
			Total: page.Total,
			Skip:  page.Skip,
			Limit: page.Limit,
		})
	}
}
