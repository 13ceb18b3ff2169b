package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "tablebot/pkg/errors"
	httputil "tablebot/pkg/http"
	"tablebot/pkg/logger"
)

// Recovery turns a panicking turn into a 500 so the platform gets an answer instead of
// a dropped connection. http.ErrAbortHandler is passed through untouched.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("Panic recovered",
					"request_id", RequestIDFromContext(r.Context()),
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				_ = httputil.WriteError(w, apperrors.Internal("Internal server error", fmt.Errorf("panic: %v", rec)))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
