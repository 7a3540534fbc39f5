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

type recordSaleRequest struct {
	CustomerID string           `json:"customer_id" validate:"required,uuid"`
	BookID     string           `json:"book_id" validate:"required,uuid"`
	Quantity   int              `json:"quantity" validate:"required,min=1"`
	UnitPrice  *decimal.Decimal `json:"unit_price" validate:"required"`
	SoldAt     *time.Time       `json:"sold_at,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
}

type saleResponse struct {
	ID          string                `json:"id"`
	CustomerID  string                `json:"customer_id"`
	BookID      string                `json:"book_id"`
	Quantity    int                   `json:"quantity"`
	UnitPrice   decimal.Decimal       `json:"unit_price"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	SoldAt      time.Time             `json:"sold_at"`
	Notes       *string               `json:"notes,omitempty"`
	Customer    *customerResponse     `json:"customer,omitempty"`
	Book        *bookResponse         `json:"book,omitempty"`
	Returns     []*salesReturnSummary `json:"returns,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

type salesReturnSummary struct {
	ID          string    `json:"id"`
	Quantity    int       `json:"quantity"`
	Reason      *string   `json:"reason,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

func toSaleResponse(sale *models.Sale) *saleResponse {
	if sale == nil {
		return nil
	}
	resp := &saleResponse{
		ID:          sale.ID.String(),
		CustomerID:  sale.CustomerID.String(),
		BookID:      sale.BookID.String(),
		Quantity:    sale.Quantity,
		UnitPrice:   sale.UnitPrice,
		TotalAmount: sale.TotalAmount,
		SoldAt:      sale.SoldAt,
		Notes:       sale.Notes,
		Customer:    toCustomerResponse(sale.Customer),
		Book:        toBookResponse(sale.Book),
		CreatedAt:   sale.CreatedAt,
	}
	for i := range sale.Returns {
		ret := &sale.Returns[i]
		resp.Returns = append(resp.Returns, &salesReturnSummary{
			ID:          ret.ID.String(),
			Quantity:    ret.Quantity,
			Reason:      ret.Reason,
			ProcessedAt: ret.ProcessedAt,
		})
	}
	return resp
}

// RecordSale handles POST /sales.
func RecordSale(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload recordSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, err := parseUUIDField(payload.CustomerID, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bookID, err := parseUUIDField(payload.BookID, "book_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.RecordSale(r.Context(), ledger.RecordSaleInput{
			CustomerID: customerID,
			BookID:     bookID,
			Quantity:   payload.Quantity,
			UnitPrice:  *payload.UnitPrice,
			SoldAt:     payload.SoldAt,
			Notes:      normalizeOptional(payload.Notes),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toSaleResponse(sale))
	}
}

// GetSale handles GET /sales/{saleId}.
func GetSale(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathUUID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.GetSale(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toSaleResponse(sale))
	}
}

// ListSales handles GET /sales with customer_id/book_id/skip/limit query
// parameters.
func ListSales(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, err := validators.ParseQueryUUID(r, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bookID, err := validators.ParseQueryUUID(r, "book_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListSales(r.Context(), ledger.ListSalesInput{
			Filters: ledger.SaleFilters{CustomerID: customerID, BookID: bookID},
			Page:    params,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]*saleResponse, 0, len(page.Items))
		for i := range page.Items {
			items = append(items, toSaleResponse(&page.Items[i]))
		}
		responses.WriteSuccess(w, pagination.Page[*saleResponse]{
			Items: items,
			Total: page.Total,
			Skip:  page.Skip,
			Limit: page.Limit,
		})
	}
}
