package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bookstock/inventory-backend/api/controllers"
	"github.com/bookstock/inventory-backend/api/middleware"
	"github.com/bookstock/inventory-backend/internal/books"
	"github.com/bookstock/inventory-backend/internal/customers"
	"github.com/bookstock/inventory-backend/internal/ledger"
	"github.com/bookstock/inventory-backend/internal/vendors"
	"github.com/bookstock/inventory-backend/pkg/config"
	"github.com/bookstock/inventory-backend/pkg/db"
	"github.com/bookstock/inventory-backend/pkg/logger"
	"github.com/bookstock/inventory-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	bookService books.Service,
	vendorService vendors.Service,
	customerService customers.Service,
	ledgerService ledger.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.HealthLive(cfg))
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Route("/books", func(r chi.Router) {
		r.Get("/", controllers.ListBooks(bookService, logg))
		r.Post("/", controllers.CreateBook(bookService, logg))
		r.Get("/{bookId}", controllers.GetBook(bookService, logg))
		r.Put("/{bookId}", controllers.UpdateBook(bookService, logg))
		r.Delete("/{bookId}", controllers.DeleteBook(bookService, logg))
	})

	r.Route("/vendors", func(r chi.Router) {
		r.Get("/", controllers.ListVendors(vendorService, logg))
		r.Post("/", controllers.CreateVendor(vendorService, logg))
		r.Get("/{vendorId}", controllers.GetVendor(vendorService, logg))
		r.Put("/{vendorId}", controllers.UpdateVendor(vendorService, logg))
		r.Delete("/{vendorId}", controllers.DeleteVendor(vendorService, logg))
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", controllers.ListCustomers(customerService, logg))
		r.Post("/", controllers.CreateCustomer(customerService, logg))
		r.Get("/{customerId}", controllers.GetCustomer(customerService, logg))
		r.Put("/{customerId}", controllers.UpdateCustomer(customerService, logg))
		r.Delete("/{customerId}", controllers.DeleteCustomer(customerService, logg))
	})

	r.Route("/purchases", func(r chi.Router) {
		r.Get("/", controllers.ListPurchases(ledgerService, logg))
		r.Post("/", controllers.RecordPurchase(ledgerService, logg))
		r.Get("/{purchaseId}", controllers.GetPurchase(ledgerService, logg))
	})

	r.Route("/sales", func(r chi.Router) {
		r.Get("/", controllers.ListSales(ledgerService, logg))
		r.Post("/", controllers.RecordSale(ledgerService, logg))
		r.Get("/{saleId}", controllers.GetSale(ledgerService, logg))
	})

	r.Route("/sales-returns", func(r chi.Router) {
		r.Get("/", controllers.ListSalesReturns(ledgerService, logg))
		r.Post("/", controllers.RecordSalesReturn(ledgerService, logg))
		r.Get("/{returnId}", controllers.GetSalesReturn(ledgerService, logg))
	})

	return r
}
