package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	h "eventhub/internal/delivery/http/helpers"
)

// Recover turns a panic in next into a generic 500 response. The panic value and stack
// go to the log only.
func Recover(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.ErrorContext(r.Context(), "panic recovered",
				"path", r.URL.Path,
				"method", r.Method,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
