// @title           FM Configurator API
// @version         1.0.0
// @description     Photo style-transform backend for the FM product configurator. Uploaded photos are restyled by Gemini, stored under a UUID and served back from a stable public URL.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fm-configurator/docs"
	"fm-configurator/internal/artifacts"
	"fm-configurator/internal/config"
	"fm-configurator/internal/gemini"
	"fm-configurator/internal/handlers"
	"fm-configurator/internal/logger"
	"fm-configurator/internal/metrics"
	"fm-configurator/internal/openai"
	"fm-configurator/internal/router"
	"fm-configurator/internal/services"
	"fm-configurator/internal/supabase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(cfg.BaseURL)
		if err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	if cfg.GeminiAPIKey == "" {
		zl.Warn("GEMINI_API_KEY not set, transform requests will fail")
	}

	// Provider clients share one transport; a zero timeout keeps the request context as the only deadline.
	httpClient := &http.Client{Timeout: cfg.ProviderTimeout}

	geminiClient := gemini.NewClient(gemini.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiAPIBaseURL,
		APIVersion: cfg.GeminiAPIVersion,
		HTTPClient: httpClient,
	})
	openaiClient := openai.NewClient(cfg.OpenAIAPIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIImageModel, httpClient)

	// Artifact storage
	var (
		store           artifacts.Store
		fileStore       *artifacts.FileStore
		artifactsServer handlers.ArtifactServer
	)
	switch cfg.ArtifactBackend {
	case config.BackendSupabase:
		supabaseClient, err := supabase.NewClient(cfg)
		if err != nil {
			zl.Fatal("failed to initialize Supabase client", zap.Error(err))
		}
		bucket := supabase.NewStorageClient(supabaseClient, cfg.SupabaseStorageBucket, cfg.SupabaseStoragePrefix).
			WithPublicBaseURL(cfg.PublicBaseURL)
		store = bucket
		artifactsServer = handlers.NewBucketArtifactsHandler(bucket)
	default:
		fileStore, err = artifacts.NewFileStore(cfg.ArtifactDir, cfg.PublicBaseURL)
		if err != nil {
			zl.Fatal("failed to initialize artifact directory", zap.Error(err))
		}
		store = fileStore
		artifactsServer = handlers.NewArtifactsHandler(fileStore)
	}
	zl.Info("artifact storage ready", zap.String("backend", cfg.ArtifactBackend))

	transformService := services.NewTransformService(geminiClient, store, cfg.GeminiTransformModel, zl)
	generateService := services.NewGenerateService(geminiClient, openaiClient, cfg.GeminiGenerateModel, zl)

	deps := router.Deps{
		Logger:    zl,
		Transform: handlers.NewTransformHandler(transformService, cfg.MaxUploadBytes),
		Generate:  handlers.NewGenerateHandler(generateService),
		Artifacts: artifactsServer,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zl.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		zl.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if fileStore != nil && cfg.ArtifactRetention > 0 {
		g.Go(func() error {
			return runPruner(gctx, fileStore, cfg.ArtifactRetention, zl)
		})
	}

	if err := g.Wait(); err != nil {
		zl.Fatal("server stopped with error", zap.Error(err))
	}
}

// runPruner sweeps expired artifacts once per retention/4, at least every minute.
func runPruner(ctx context.Context, store *artifacts.FileStore, retention time.Duration, zl *zap.Logger) error {
	interval := retention / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			removed, err := store.Prune(ctx, retention, now)
			if err != nil && !errors.Is(err, context.Canceled) {
				zl.Warn("artifact prune failed", zap.String("dir", store.Dir()), zap.Error(err))
			}
			if removed > 0 {
				metrics.ArtifactsPrunedTotal.Add(float64(removed))
				zl.Info("pruned artifacts", zap.String("dir", store.Dir()), zap.Int("removed", removed))
			}
		}
	}
}
