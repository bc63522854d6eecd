package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/kubev2v/job-tracker/pkg/requestid"
	"go.uber.org/zap"
)

// Logger logs a start line and a completion line per request. The completion
// level follows the status class: 5xx error, 4xx warn, otherwise info.
// Health probes are logged at debug.
func Logger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := zap.S().Named("http").Desugar()
			start := time.Now()
			path := r.URL.Path
			requestID := requestid.FromRequest(r)

			common := []zap.Field{
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", path),
				zap.String("ip", clientIP(r)),
			}

			probe := r.Method == http.MethodGet && path == "/health"
			if !probe {
				log.Debug("Request started", append(common, zap.String("user-agent", r.UserAgent()))...)
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			fields := append(common,
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.Int("response_bytes", ww.BytesWritten()),
			)

			msg := "Request completed"
			switch {
			case ww.Status() >= 500:
				log.Error(msg, fields...)
			case ww.Status() >= 400:
				log.Warn(msg, fields...)
			case probe:
				log.Debug(msg, fields...)
			default:
				log.Info(msg, fields...)
			}
		})
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
