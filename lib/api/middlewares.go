package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/ulule/limiter"
	"github.com/ulule/limiter/drivers/middleware/stdlib"
	"github.com/ulule/limiter/drivers/store/memory"

	"boscoin.io/congress/lib/httputils"
	"boscoin.io/congress/lib/metrics"
)

func RecoverMiddleware(printStack bool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rc := recover(); rc != nil {
					err, ok := rc.(error)
					if !ok {
						err = fmt.Errorf("panic: %v", rc)
					}
					httputils.WriteJSONError(w, err)
					log.Error("recover a panic", "error", err, "url", r.URL.String())
					if printStack {
						debug.PrintStack()
					}
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// MetricsMiddleware observes every request under its route pattern, so ids
// do not end up in the labels.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if t, err := route.GetPathTemplate(); err == nil {
				endpoint = t
			}
		}

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		begin := time.Now()
		next.ServeHTTP(sw, r)

		metrics.API.Observe(
			endpoint,
			r.Method,
			strconv.Itoa(sw.status),
			time.Since(begin).Seconds(),
			sw.status >= http.StatusBadRequest,
		)
	})
}

// RateLimitMiddleware limits the requests per client IP; `formatted` is like
// "100-S" or "1000-H".
func RateLimitMiddleware(formatted string) (mux.MiddlewareFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}

	m := stdlib.NewMiddleware(limiter.New(memory.NewStore(), rate))
	log.Debug("rate limit enabled", "rate", formatted)

	return m.Handler, nil
}
