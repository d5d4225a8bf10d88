// Package middleware composes the HTTP middleware stack wrapped around the
// preview file server.
package middleware

import (
	"net/http"
	"time"

	"github.com/pretextbook/pretext/internal/logging"
)

// Middleware represents a single middleware function
type Middleware func(http.Handler) http.Handler

// MiddlewareChain applies middlewares in the onion model: the first one
// added is the outermost.
type MiddlewareChain struct {
	middlewares []Middleware
}

// NewMiddlewareChain creates a chain holding middlewares in order
func NewMiddlewareChain(middlewares ...Middleware) *MiddlewareChain {
	mc := &MiddlewareChain{middlewares: make([]Middleware, 0, len(middlewares))}
	for _, m := range middlewares {
		mc.AddMiddleware(m)
	}
	return mc
}

// DefaultChain is the preview server's stack: request logging outermost,
// then response headers suited to local previews.
func DefaultChain(logger logging.Logger) *MiddlewareChain {
	return NewMiddlewareChain(Logging(logger), PreviewHeaders())
}

// AddMiddleware appends an inner middleware; nil is ignored
func (mc *MiddlewareChain) AddMiddleware(middleware Middleware) {
	if middleware == nil {
		return
	}
	mc.middlewares = append(mc.middlewares, middleware)
}

// Apply wraps handler with every middleware in the chain
func (mc *MiddlewareChain) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(mc.middlewares) - 1; i >= 0; i-- {
		wrapped = mc.middlewares[i](wrapped)
	}
	return wrapped
}

// GetMiddlewareCount returns the number of middlewares in the chain
func (mc *MiddlewareChain) GetMiddlewareCount() int {
	return len(mc.middlewares)
}

// statusRecorder captures the status code written by the inner handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer, which the
// websocket upgrade needs for hijacking.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Logging records method, path, status and duration of every request at
// debug level.
func Logging(logger logging.Logger) Middleware {
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.WithComponent("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Debug(r.Context(), "Request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start))
		})
	}
}

// PreviewHeaders disables caching so a rebuilt document is always fetched
// fresh, and stops browsers from sniffing content types.
func PreviewHeaders() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	}
}
