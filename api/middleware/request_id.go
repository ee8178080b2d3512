package middleware

import (
	"net/http"

	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/requestid"
	"github.com/google/uuid"
)

// RequestID reuses the caller's X-Request-Id or mints one, echoes it and
// attaches it to the request context.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestid.Header)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestid.Header, reqID)

			ctx := requestid.With(r.Context(), logg, reqID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
