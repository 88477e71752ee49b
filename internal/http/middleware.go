package http

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/GeoAziz/cyberfeast/internal/auth"
	"github.com/GeoAziz/cyberfeast/internal/logging"
	"github.com/GeoAziz/cyberfeast/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// StatusRecoder remembers the status code written by the wrapped handler.
type StatusRecoder struct {
	http.ResponseWriter
	status int
}

func (w *StatusRecoder) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *StatusRecoder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *StatusRecoder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *StatusRecoder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *StatusRecoder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

func recorder(w http.ResponseWriter) *StatusRecoder {
	if rec, ok := w.(*StatusRecoder); ok {
		return rec
	}
	return &StatusRecoder{ResponseWriter: w}
}

// RequestIDMiddleware propagates X-Request-ID, generating one when absent.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), requestID)))
	})
}

// LoggerMiddleware attaches a request scoped logger to the context and logs
// every request once on completion.
func LoggerMiddleware(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			logger := base.With().Str("request_id", requestID(r.Context())).Logger()
			r = r.WithContext(logging.WithLogger(r.Context(), logger))

			rec := recorder(w)
			next.ServeHTTP(rec, r)

			userID := ""
			if id, ok := auth.IdentityFrom(r.Context()); ok {
				userID = id.UserID
			}

			ev := logger.Info()
			if rec.Status() >= http.StatusInternalServerError {
				ev = logger.Error()
			}
			ev.Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("user_id", userID).
				Int("status", rec.Status()).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}

// MetricsMiddleware records request counts and latency by route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := recorder(w)
		next.ServeHTTP(rec, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(rec.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(float64(time.Since(start).Milliseconds()))
	})
}

// MaxBodyMiddleware caps request bodies at limit bytes.
func MaxBodyMiddleware(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && limit > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminChecker is the part of the admin service the gate needs.
type AdminChecker interface {
	RequireAdmin(ctx context.Context, uid string) error
}

// RequireAdminMiddleware lets through authenticated callers whose account
// carries the admin flag.
func RequireAdminMiddleware(checker AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := requireUser(w, r)
			if !ok {
				return
			}
			if err := checker.RequireAdmin(r.Context(), id.UserID); err != nil {
				handleServiceError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
