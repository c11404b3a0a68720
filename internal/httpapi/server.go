// Package httpapi exposes the phone inventory over a small JSON HTTP API.
package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"phonestore/internal/inventory"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Server routes HTTP requests to the inventory service.
type Server struct {
	svc    *inventory.Service
	logger inventory.Logger
}

// NewServer creates a Server. A nil logger is replaced with a NopLogger.
func NewServer(svc *inventory.Service, logger inventory.Logger) *Server {
	if logger == nil {
		logger = inventory.NewNopLogger()
	}
	return &Server{svc: svc, logger: logger}
}

// Handler returns the complete handler: routes wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/phones", s.handleList)
	mux.HandleFunc("POST /api/phones", s.handleCreate)
	mux.HandleFunc("PUT /api/phones/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /api/phones/{id}", s.handleDelete)

	return s.withRequestLog(withCORS(mux))
}

// withCORS allows any origin and answers preflight requests itself.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Info("request handled",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}
