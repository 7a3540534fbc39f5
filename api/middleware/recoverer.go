package middleware

import (
	"fmt"
	"net/http"

	"github.com/bookstock/inventory-backend/api/responses"
	pkgerrors "github.com/bookstock/inventory-backend/pkg/errors"
	"github.com/bookstock/inventory-backend/pkg/logger"
)

// Recoverer converts handler panics into a logged 500 response so a single
// bad request cannot take the process down.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				err := fmt.Errorf("panic: %v", rec)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{"panic": rec})
					logg.Error(ctx, "panic.recovered", err)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
