package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/textforge/humanizer/web/auth"
)

// Logger interface for logging
type Logger interface {
	Printf(format string, v ...interface{})
}

// Chain applies middlewares in order to a handler.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	return h
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs method, path, status, duration, request id, and
// userID (if any).
func RequestLogger(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()

			lrw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(lrw, r)

			userID, _ := auth.GetUserID(r.Context())
			logger.Printf("%s %s %d %s request_id=%s user_id=%s",
				r.Method, r.URL.Path, lrw.status, time.Since(start).String(), requestID, userID)
		})
	}
}
