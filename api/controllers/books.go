package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookstock/inventory-backend/api/responses"
	"github.com/bookstock/inventory-backend/api/validators"
	booksvc "github.com/bookstock/inventory-backend/internal/books"
	"github.com/bookstock/inventory-backend/pkg/db/models"
	"github.com/bookstock/inventory-backend/pkg/logger"
	"github.com/bookstock/inventory-backend/pkg/pagination"
)

type createBookRequest struct {
	Title    string           `json:"title" validate:"required"`
	Author   string           `json:"author" validate:"required"`
	ISBN     *string          `json:"isbn,omitempty"`
	Quantity int              `json:"quantity" validate:"gte=0"`
	Price    *decimal.Decimal `json:"price" validate:"required"`
}

type updateBookRequest struct {
	Title    *string          `json:"title,omitempty"`
	Author   *string          `json:"author,omitempty"`
	ISBN     *string          `json:"isbn,omitempty"`
	Quantity *int             `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

type bookResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Author    string          `json:"author"`
	ISBN      *string         `json:"isbn,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toBookResponse(book *models.Book) *bookResponse {
	if book == nil {
		return nil
	}
	return &bookResponse{
		ID:        book.ID.String(),
		Title:     book.Title,
		Author:    book.Author,
		ISBN:      book.ISBN,
		Quantity:  book.Quantity,
		Price:     book.Price,
		CreatedAt: book.CreatedAt,
		UpdatedAt: book.UpdatedAt,
	}
}

// CreateBook handles POST /books.
func CreateBook(svc booksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createBookRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		book, err := svc.Create(r.Context(), booksvc.CreateInput{
			Title:    strings.TrimSpace(payload.Title),
			Author:   strings.TrimSpace(payload.Author),
			ISBN:     normalizeOptional(payload.ISBN),
			Quantity: payload.Quantity,
			Price:    *payload.Price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toBookResponse(book))
	}
}

// GetBook handles GET /books/{bookId}.
func GetBook(svc booksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathUUID(r, "bookId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		book, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toBookResponse(book))
	}
}

// UpdateBook handles PUT /books/{bookId}. Absent fields are left untouched.
func UpdateBook(svc booksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathUUID(r, "bookId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateBookRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		book, err := svc.Update(r.Context(), id, booksvc.UpdateInput{
			Title:    trimOptional(payload.Title),
			Author:   trimOptional(payload.Author),
			ISBN:     normalizeOptional(payload.ISBN),
			Quantity: payload.Quantity,
			Price:    payload.Price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toBookResponse(book))
	}
}

// DeleteBook handles DELETE /books/{bookId}.
func DeleteBook(svc booksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathUUID(r, "bookId")
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

// ListBooks handles GET /books with q/skip/limit query parameters.
func ListBooks(svc booksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), booksvc.ListInput{
			Filters: booksvc.ListFilters{Query: r.URL.Query().Get("q")},
			Page:    params,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]*bookResponse, 0, len(page.Items))
		for i := range page.Items {
			items = append(items, toBookResponse(&page.Items[i]))
		}
		responses.WriteSuccess(w, pagination.Page[*bookResponse]{
			Items: items,
			Total: page.Total,
			Skip:  page.Skip,
			Limit: page.Limit,
		})
	}
}

// normalizeOptional trims an optional string and drops it entirely when the
// result is empty, so "" never reaches a unique column.
func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
