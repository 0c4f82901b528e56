package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/duolink/cotizador/pkg/logger"
	"github.com/duolink/cotizador/pkg/response"
)

// Recovery turns a panic in a downstream handler into a logged 500
// instead of a dropped connection. http.ErrAbortHandler is re-raised
// since it is the sanctioned way to abort a response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			logger.WithCtx(r.Context()).Error("panic recovered",
				"panic", rec,
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}()
		next.ServeHTTP(w, r)
	})
}
