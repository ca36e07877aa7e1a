package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"forummini/internal/app"
	"forummini/internal/metrics"
	"forummini/internal/ratelimit"
	"forummini/internal/util"
)

const maxBodyBytes = 1 << 20

// Config wires required dependencies for the HTTP server.
type Config struct {
	App *app.App
	// Metrics enables /metrics and per-route request metrics when set.
	Metrics *metrics.Collector
	// Write requests are limited per client IP when WriteRateLimitPerMinute > 0.
	RedisAddr               string
	RedisPassword           string
	WriteRateLimitPerMinute int
}

// Server exposes the forum REST API.
type Server struct {
	app          *app.App
	metrics      *metrics.Collector
	writeLimiter *ratelimit.FixedWindowLimiter
	mux          *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, errors.New("app is required")
	}
	s := &Server{
		app:     cfg.App,
		metrics: cfg.Metrics,
		mux:     http.NewServeMux(),
	}
	if cfg.WriteRateLimitPerMinute > 0 {
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword,
			"forum:ratelimit:write", cfg.WriteRateLimitPerMinute, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("init write limiter: %w", err)
		}
		s.writeLimiter = limiter
	}
	s.routes()
	return s, nil
}

// Close releases the write limiter's Redis connection.
func (s *Server) Close() error {
	if s.writeLimiter == nil {
		return nil
	}
	return s.writeLimiter.Close()
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	var h http.Handler = s.mux
	if s.metrics != nil {
		// Innermost so the mux-assigned r.Pattern is visible after ServeHTTP.
		h = s.metrics.WithRequestMetrics(h)
	}
	h = util.WithSecurityHeaders(util.WithCORS(h))
	h = util.WithRequestLog("forum", h)
	return util.WithRequestID(h)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	s.mux.HandleFunc("POST /users", s.limited(s.handleCreateUser))
	s.mux.HandleFunc("GET /users", s.handleListUsers)
	s.mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	s.mux.HandleFunc("PUT /users/{id}", s.limited(s.handleUpdateUser))
	s.mux.HandleFunc("DELETE /users/{id}", s.limited(s.handleDeleteUser))

	s.mux.HandleFunc("POST /posts", s.limited(s.handleCreatePost))
	s.mux.HandleFunc("GET /posts", s.handleListPosts)
	s.mux.HandleFunc("GET /posts/{id}", s.handleGetPost)
	s.mux.HandleFunc("PUT /posts/{id}", s.limited(s.handleUpdatePost))
	s.mux.HandleFunc("DELETE /posts/{id}", s.limited(s.handleDeletePost))

	s.mux.HandleFunc("POST /comments", s.limited(s.handleCreateComment))
	s.mux.HandleFunc("GET /comments", s.handleListComments)
	s.mux.HandleFunc("GET /comments/{id}", s.handleGetComment)
	s.mux.HandleFunc("PUT /comments/{id}", s.limited(s.handleUpdateComment))
	s.mux.HandleFunc("DELETE /comments/{id}", s.limited(s.handleDeleteComment))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// limited applies the write limiter, when configured, before next.
func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	if s.writeLimiter == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.allowRate(w, r, s.writeLimiter, "too many write requests") {
			s.audit(r, "forum.write", "rate_limited")
			return
		}
		next(w, r)
	}
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, msg string) bool {
	if limiter.Allow(r.Context(), clientIP(r)) {
		return true
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(limiter.Window().Seconds())))
	writeError(w, http.StatusTooManyRequests, codeRateLimited, msg)
	return false
}

func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", clientIP(r),
	}
	logAttrs = append(logAttrs, attrs...)
	logger := util.LoggerFromContext(r.Context())
	if outcome == "success" {
		logger.Info("forum_event", logAttrs...)
		return
	}
	logger.Warn("forum_event", logAttrs...)
}

func clientIP(r *http.Request) string {
	if xfwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xfwd != "" {
		if ip := strings.TrimSpace(strings.Split(xfwd, ",")[0]); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeCreated(w http.ResponseWriter, location string, payload any) {
	w.Header().Set("Location", location)
	writeJSON(w, http.StatusCreated, payload)
}

// pathID parses the {id} wildcard.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter. Absent or blank
// values yield nil.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &v, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean", name)
	}
	return v, nil
}
