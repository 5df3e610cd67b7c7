package middleware

import (
	"net/http"
	"time"

	"github.com/zjoart/instantpay-wallet/pkg/id"
	"github.com/zjoart/instantpay-wallet/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// LoggingMiddleware tags every request with an id (kept from the client when
// present) and logs one line once the handler returns.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = id.Generate()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		fields := logger.Fields{
			logger.RequestIDKey: requestID,
			"method":            r.Method,
			"path":              r.URL.Path,
			"status":            rw.status,
			"duration":          time.Since(start).String(),
			"remote":            r.RemoteAddr,
		}

		if rw.status >= http.StatusInternalServerError {
			logger.Error("Request completed", fields)
			return
		}
		logger.Info("Request completed", fields)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
