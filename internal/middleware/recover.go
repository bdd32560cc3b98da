package middleware

import (
	"log/slog"
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
)

// Recover reports panics to Sentry and answers 500 instead of dropping the connection.
func Recover() func(http.Handler) http.Handler {
	sentryHandler := sentryhttp.New(sentryhttp.Options{
		Repanic: true,
		Timeout: 2 * time.Second,
	})

	return func(next http.Handler) http.Handler {
		reporting := sentryHandler.Handle(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					slog.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
					writeError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()
			reporting.ServeHTTP(w, r)
		})
	}
}
