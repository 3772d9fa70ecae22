// Package http exposes the ledger and reports as a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"txtracker/internal/cache"
	"txtracker/internal/reports"
	"txtracker/internal/service"
	"txtracker/internal/timeline"
)

const (
	defaultCacheSize = 100
	defaultCacheTTL  = 5 * time.Minute
)

type Server struct {
	http.Server
	ledger      *service.LedgerService
	reports     *reports.Service
	rateLimiter *rateLimiter

	// Aggregation responses are cached between mutations.
	historyCache *cache.LRUCache[[]timeline.Entry]
	reportCache  *cache.LRUCache[reportResponse]
	cacheManager *cache.Manager

	// Single-slot undo: the id of the most recent soft delete.
	mu            sync.Mutex
	lastDeletedID int64

	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, ledger *service.LedgerService, rep *reports.Service, cacheTTL, cacheCleanup time.Duration) *Server {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	if cacheCleanup <= 0 {
		cacheCleanup = time.Minute
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:       ledger,
		reports:      rep,
		rateLimiter:  newRateLimiter(),
		historyCache: cache.NewLRUCache[[]timeline.Entry](defaultCacheSize, cacheTTL),
		reportCache:  cache.NewLRUCache[reportResponse](defaultCacheSize, cacheTTL),
		cacheManager: cache.NewManager(),
		now:          time.Now,
	}

	s.cacheManager.Register(s.historyCache)
	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(cacheCleanup)

	mux.HandleFunc("POST /transactions", s.withSecurityHeaders(s.handleCreateTransaction))
	mux.HandleFunc("GET /transactions", s.withSecurityHeaders(s.handleHistory))
	mux.HandleFunc("GET /transactions/export", s.withSecurityHeaders(s.handleExport))
	mux.HandleFunc("DELETE /transactions/last", s.withSecurityHeaders(s.handleHardDeleteLast))
	mux.HandleFunc("DELETE /transactions/{id}", s.withSecurityHeaders(s.handleSoftDelete))
	mux.HandleFunc("POST /transactions/undo", s.withSecurityHeaders(s.handleUndoDelete))
	mux.HandleFunc("GET /reports/{period}", s.withSecurityHeaders(s.handleReport))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	return s
}

// invalidate drops all cached aggregations. Called after every mutation.
func (s *Server) invalidate() {
	s.historyCache.Clear()
	s.reportCache.Clear()
}

// Shutdown gracefully stops the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		// Mutations are rate limited per client.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.ledger.Count(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
