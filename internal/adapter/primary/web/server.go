package web

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"moviesearch/internal/domain"
)

//go:embed static/*
var rawStatic embed.FS
var staticContent fs.FS

func init() {
	var err error
	staticContent, err = fs.Sub(rawStatic, "static")
	if err != nil {
		panic(err)
	}
}

// Server is a primary adapter that exposes the movie search UI over HTTP.
// Each websocket connection runs its own pipeline against the shared repository.
type Server struct {
	repo   domain.MovieRepository
	log    *zap.Logger
	server *http.Server
}

// NewServer creates the HTTP server bound to addr.
func NewServer(repo domain.MovieRepository, addr string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	srv := &Server{repo: repo, log: log.Named("web")}
	srv.server = &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv
}

// Handler returns the routed handler, wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/ws", s.handleSession)
	mux.Handle("/", http.FileServer(http.FS(staticContent)))
	return loggingMiddleware(s.log, mux)
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(s.log, w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(log *zap.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn("encode JSON", zap.Error(err))
	}
}

func loggingMiddleware(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r)
		log.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}
