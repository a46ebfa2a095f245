package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/pkg/logger"
)

// SessionIDHeader identifies the shopper whose cart a request operates on.
const SessionIDHeader = "X-Session-ID"

const maxSessionIDLen = 128

// Session resolves the shopper session for each request. The inbound
// X-Session-ID header is used when present and well formed; otherwise a new
// UUID is issued. The id is stored in the request context and echoed back so
// clients can keep it for subsequent calls.
func Session() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(SessionIDHeader))
			if !validSessionID(id) {
				id = uuid.NewString()
			}

			w.Header().Set(SessionIDHeader, id)
			ctx := logger.WithSessionID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID returns the session resolved by Session, or "" outside of it.
func SessionID(r *http.Request) string {
	return logger.SessionIDFromContext(r.Context())
}

// validSessionID accepts printable ASCII without spaces or the ':' key
// separator, up to maxSessionIDLen bytes.
func validSessionID(id string) bool {
	if id == "" || len(id) > maxSessionIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c <= ' ' || c > '~' || c == ':' {
			return false
		}
	}
	return true
}
