package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
)

// NewRouter wires the message endpoints and middleware.
func NewRouter(h *Handler, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()

	router.Use(recoverMiddleware(logger))
	router.Use(corsMiddleware)
	router.Use(loggingMiddleware(logger))

	router.HandleFunc("/", h.Teapot).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet, http.MethodOptions)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/messages", h.ListMessages).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/contexts/Message", h.MessageContext).Methods(http.MethodGet, http.MethodOptions)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusNotFound, fmt.Sprintf("No route found for %q", r.URL.Path))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s is not allowed", r.Method))
	})

	return router
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.InfoContext(r.Context(), "HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

func recoverMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "Panic while serving request",
						"path", r.URL.Path,
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					writeProblem(w, http.StatusInternalServerError, "An internal error occurred.")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
