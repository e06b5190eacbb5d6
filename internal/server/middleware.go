package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"pizzahunt/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// requestLogger tags each request with an id and logs its outcome. An
// incoming X-Request-ID is kept so clients can correlate their own logs.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = newRequestID()
			}
			ctx := logging.WithRequestID(r.Context(), id)
			w.Header().Set(requestIDHeader, id)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []logging.Attr{
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", status),
				logging.Int("bytes", ww.BytesWritten()),
				logging.Duration("duration", time.Since(start)),
			}
			reqLogger := logging.WithContext(ctx, logger)
			switch {
			case status >= http.StatusInternalServerError:
				reqLogger.Error("request failed", logging.Args(attrs...)...)
			case status >= http.StatusBadRequest:
				reqLogger.Info("request rejected", logging.Args(attrs...)...)
			default:
				reqLogger.Debug("request served", logging.Args(attrs...)...)
			}
		})
	}
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
