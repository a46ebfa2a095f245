package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, enriched with
// correlation_id, session_id, trace_id and span_id. Handlers retrieve it with
// logger.FromContext.
//
// Mount it after RequestLogging, Tracing and Session so those fields exist.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Routes mounted outside Session still log the header value.
			if logger.SessionIDFromContext(ctx) == "" {
				if id := r.Header.Get(SessionIDHeader); validSessionID(id) {
					ctx = logger.WithSessionID(ctx, id)
				}
			}

			enriched := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
