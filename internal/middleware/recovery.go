package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"church-backend/pkg/utils"
)

// PanicRecovery keeps a panicking handler from taking the server down with it.
// The client gets a plain 500; the stack goes to the log.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[Recovery] Panic on %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				utils.Error(w, http.StatusInternalServerError, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
