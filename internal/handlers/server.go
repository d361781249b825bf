package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/mux"

	"github.com/pep299/leeai-studio/internal/cache"
	"github.com/pep299/leeai-studio/internal/config"
	"github.com/pep299/leeai-studio/internal/gemini"
	"github.com/pep299/leeai-studio/internal/service"
	"github.com/pep299/leeai-studio/internal/speech"
)

// Version is reported by the health endpoint and the -version flags
var Version = "v1.0.0"

// Server holds the HTTP server and its dependencies
type Server struct {
	config       *config.Config
	studio       *service.Studio
	cacheManager *cache.Manager
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	// Initialize cache manager
	cacheManager, err := cache.NewManager(ctx, cache.Options{
		Type:       cfg.CacheType,
		Duration:   cfg.CacheTTL(),
		SQLitePath: cfg.CacheSQLitePath,
		Bucket:     cfg.CacheBucket,
	})
	if err != nil {
		return nil, fmt.Errorf("creating cache manager: %w", err)
	}

	tts, err := speech.New(ctx, speech.Options{
		Provider:     cfg.TTSProvider,
		GoogleAPIKey: cfg.GoogleTTSAPIKey,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		Voice:        cfg.TTSVoice,
	})
	if err != nil {
		cacheManager.Close()
		return nil, fmt.Errorf("creating speech synthesizer: %w", err)
	}

	studio := service.New(gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel), tts, cacheManager, service.Options{
		ContextLimit: cfg.ContextLimit,
		ScriptLimit:  cfg.ScriptLimit,
		HistoryLimit: cfg.ChatHistoryLimit,
	})

	return NewServerWith(cfg, studio, cacheManager), nil
}

// NewServerWith assembles a server from ready-made parts
func NewServerWith(cfg *config.Config, studio *service.Studio, cacheManager *cache.Manager) *Server {
	return &Server{config: cfg, studio: studio, cacheManager: cacheManager}
}

// SetupRoutes configures HTTP routes
func (s *Server) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/leeai").Subrouter()
	api.Use(s.corsMiddleware)
	api.Use(s.loggingMiddleware)

	// Generation
	api.HandleFunc("/generate", s.generateHandler).Methods("POST")
	api.HandleFunc("/audio", s.audioHandler).Methods("POST")
	api.HandleFunc("/render", s.renderHandler).Methods("POST")
	api.HandleFunc("/chat", s.chatHandler).Methods("GET")

	// Cache operations
	api.HandleFunc("/cache/stats", s.cacheStatsHandler).Methods("GET")
	api.HandleFunc("/cache/clear", s.cacheClearHandler).Methods("DELETE")

	// Status and configuration
	api.HandleFunc("/health", s.healthHandler).Methods("GET")
	api.HandleFunc("/config", s.configHandler).Methods("GET")

	// Preflight requests only need the CORS headers
	api.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	return r
}

// PurgeCache drops expired cache entries
func (s *Server) PurgeCache(ctx context.Context) error {
	removed, err := s.cacheManager.Purge(ctx)
	if err != nil {
		return fmt.Errorf("purging cache: %w", err)
	}
	if removed > 0 {
		log.Printf("Purged %d expired cache entries", removed)
	}
	return nil
}

// Close releases the cache backend
func (s *Server) Close() error {
	return s.cacheManager.Close()
}

// Middleware functions

// corsMiddleware allows the configured browser origins
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (slices.Contains(s.config.AllowedOrigins, origin) || slices.Contains(s.config.AllowedOrigins, "*")) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap the ResponseWriter to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		log.Printf("%s %s %d %v", r.Method, r.URL.Path, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
