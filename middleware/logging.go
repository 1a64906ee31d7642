package middleware

import (
	"net/http"

	"overlaysvc/pkg/logger"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// Logging writes one structured line per request and tags the response with a
// request id, reusing the caller's X-Request-ID when present.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		m := httpsnoop.CaptureMetrics(next, w, r)

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", m.Code),
			zap.Duration("duration", m.Duration),
			zap.Int64("bytes", m.Written),
		}
		if m.Code >= http.StatusInternalServerError {
			logger.Log.Warn("request", fields...)
			return
		}
		logger.Log.Info("request", fields...)
	})
}
