package controllers

import (
	"net/http"
	"time"

	"github.com/bookstock/inventory-backend/api/responses"
	"github.com/bookstock/inventory-backend/api/validators"
	"github.com/bookstock/inventory-backend/internal/ledger"
	"github.com/bookstock/inventory-backend/pkg/db/models"
	"github.com/bookstock/inventory-backend/pkg/logger"
	"github.com/bookstock/inventory-backend/pkg/pagination"
)

type recordSalesReturnRequest struct {
	SaleID   string  `json:"sale_id" validate:"required,uuid"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Reason   *string `json:"reason,omitempty"`
}

type salesReturnResponse struct {
	ID          string        `json:"id"`
	SaleID      string        `json:"sale_id"`
	Quantity    int           `json:"quantity"`
	Reason      *string       `json:"reason,omitempty"`
	ProcessedAt time.Time     `json:"processed_at"`
	Sale        *saleResponse `json:"sale,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

func toSalesReturnResponse(ret *models.SalesReturn) *salesReturnResponse {
	if ret == nil {
		return nil
	}
	return &salesReturnResponse{
		ID:          ret.ID.String(),
		SaleID:      ret.SaleID.String(),
		Quantity:    ret.Quantity,
		Reason:      ret.Reason,
		ProcessedAt: ret.ProcessedAt,
		Sale:        toSaleResponse(ret.Sale),
		CreatedAt:   ret.CreatedAt,
	}
}

// RecordSalesReturn handles POST /sales-returns.
func RecordSalesReturn(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload recordSalesReturnRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saleID, err := parseUUIDField(payload.SaleID, "sale_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ret, err := svc.RecordReturn(r.Context(), ledger.RecordReturnInput{
			SaleID:   saleID,
			Quantity: payload.Quantity,
			Reason:   normalizeOptional(payload.Reason),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toSalesReturnResponse(ret))
	}
}

// GetSalesReturn handles GET /sales-returns/{returnId}.
func GetSalesReturn(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathUUID(r, "returnId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ret, err := svc.GetReturn(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toSalesReturnResponse(ret))
	}
}

// ListSalesReturns handles GET /sales-returns with sale_id/skip/limit query
// parameters.
func ListSalesReturns(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saleID, err := validators.ParseQueryUUID(r, "sale_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListReturns(r.Context(), ledger.ListReturnsInput{
			Filters: ledger.ReturnFilters{SaleID: saleID},
			Page:    params,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]*salesReturnResponse, 0, len(page.Items))
		for i := range page.Items {
			items = append(items, toSalesReturnResponse(&page.Items[i]))
		}
		responses.WriteSuccess(w, pagination.Page[*salesReturnResponse]{
			Items: items,
			Total: page.Total,
			Skip:  page.Skip,
			Limit: page.Limit,
		})
	}
}
