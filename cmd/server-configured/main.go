package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendant/simple-frontend/pkg/simplefrontend"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/api"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/config"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/contentmodel"
)

func main() {
	env, cfg, err := loadConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: env.slogLevel()})))

	model, err := cfg.LoadContentModel()
	if err != nil {
		slog.Error("Failed to load content model", "path", cfg.ContentModelPath, "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	cache, err := cfg.BuildCacheStore(ctx)
	if err != nil {
		slog.Error("Failed to build cache store", "err", err)
		os.Exit(1)
	}

	server := NewHTTPServer(model, cache, cfg, env)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Simple Frontend server starting",
			"port", cfg.Port,
			"env", cfg.Environment,
			"content_types", model.Len(),
			"cache", cfg.CacheBackend,
			"content_api", env.ContentAPIURL,
		)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), env.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

// HTTPServer wires the preview API, health check and metrics endpoint
type HTTPServer struct {
	model   *contentmodel.ContentModel
	config  *config.Config
	env     *EnvConfig
	preview *api.PreviewHandler
}

// NewHTTPServer creates a new HTTP server wrapper
func NewHTTPServer(model *contentmodel.ContentModel, cache simplefrontend.CacheStore, cfg *config.Config, env *EnvConfig) *HTTPServer {
	opts := []api.HandlerOption{
		api.WithCache(cache, cfg.CacheLifetime),
		api.WithLogger(slog.Default()),
	}
	if env.ContentAPIURL != "" {
		opts = append(opts, api.WithFetcher(simplefrontend.NewHTTPFetcher(env.ContentAPIURL, nil)))
	}

	return &HTTPServer{
		model:   model,
		config:  cfg,
		env:     env,
		preview: api.NewPreviewHandler(model, opts...),
	}
}

// Routes sets up the HTTP routes
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(api.RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(api.LoggingMiddleware(slog.Default()))
	r.Use(api.RecoveryMiddleware)
	if s.env.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.env.RequestTimeout))
	}
	if s.env.MaxBodyBytes > 0 {
		r.Use(api.RequestSizeLimitMiddleware(s.env.MaxBodyBytes))
	}

	if s.config.Environment == "development" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusOK)
					return
				}

				next.ServeHTTP(w, r)
			})
		})
	}

	r.Get("/health", s.handleHealth)

	if m := s.config.Metrics(); m != nil {
		r.Handle("/metrics", m.Handler())
	} else {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if s.env.CacheMaxAge > 0 {
			r.Use(api.CacheControlMiddleware(s.env.CacheMaxAge))
		}
		r.Mount("/", s.preview.Routes())
	})

	return r
}

// HealthResponse is the body of the health check
type HealthResponse struct {
	Status       string `json:"status"`
	Environment  string `json:"environment"`
	ContentTypes int    `json:"content_types"`
	Cache        string `json:"cache"`
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:       "healthy",
		Environment:  s.config.Environment,
		ContentTypes: s.model.Len(),
		Cache:        s.config.CacheBackend,
	})
}
