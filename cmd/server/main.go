// @title           Phone Cover Generator API
// @version         1.0.0
// @description     Backend API for compositing user photos into phone cover templates. Operators register templates with a green key region; users upload a photo and receive a finished cover PNG.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"phone-cover-backend/docs"
	"phone-cover-backend/internal/config"
	"phone-cover-backend/internal/database"
	"phone-cover-backend/internal/handlers"
	"phone-cover-backend/internal/logging"
	"phone-cover-backend/internal/middleware"
	"phone-cover-backend/internal/services"
	"phone-cover-backend/internal/storage"
	"phone-cover-backend/internal/supabase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logging.New(cfg.Environment, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if baseURL, err := url.Parse(cfg.BaseURL); err == nil && baseURL.Host != "" {
		docs.SwaggerInfo.Host = baseURL.Host
		if baseURL.Scheme == "https" {
			docs.SwaggerInfo.Schemes = []string{"https", "http"}
		} else {
			docs.SwaggerInfo.Schemes = []string{"http", "https"}
		}
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.NewMigrator(db, log).Run(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Info(ctx, "migrations completed")

	store, err := newFileStore(ctx, cfg)
	if err != nil {
		return err
	}

	var events services.EventPublisher
	if cfg.SupabaseURL != "" && cfg.SupabaseServiceKey != "" {
		supabaseClient, err := supabase.NewClient(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize supabase client: %w", err)
		}
		events = supabase.NewEventPublisher(supabaseClient, log)
	} else {
		log.Warn(ctx, "supabase not configured, cover events disabled")
	}

	repo := database.NewTemplateRepository(db)
	dirs := services.Dirs{
		Templates: cfg.TemplatesDir,
		Uploads:   cfg.UploadsDir,
		Generated: cfg.GeneratedDir,
	}
	coverService := services.NewCoverService(repo, store, dirs, cfg.DefaultBrightness, events, log)
	templateService := services.NewTemplateService(repo, store, cfg.TemplatesDir, cfg.PaletteSize, events, log)

	maxUpload := cfg.MaxUploadMB << 20
	healthHandler := handlers.NewHealthHandler(db)
	coverHandler := handlers.NewCoverHandler(coverService, maxUpload, log)
	templateHandler := handlers.NewTemplateHandler(templateService, maxUpload, log)

	router := gin.Default()

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", healthHandler.Health)

	if local, ok := store.(*storage.LocalStore); ok {
		router.StaticFS("/files", gin.Dir(local.Root(), false))
	}

	api := router.Group("/api/v1")

	// Public cover routes
	api.POST("/covers/generate", coverHandler.Generate)
	api.GET("/covers", coverHandler.List)
	api.GET("/covers/:name/qr", coverHandler.QRCode)

	// Operator routes
	operator := api.Group("/templates")
	operator.Use(middleware.AuthMiddleware(cfg))
	operator.GET("", templateHandler.List)
	operator.POST("", templateHandler.Create)
	operator.PUT("/:id", templateHandler.Update)
	operator.DELETE("/:id", templateHandler.Delete)
	operator.GET("/:id/inspect", templateHandler.Inspect)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server starting", "port", cfg.Port, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newFileStore(ctx context.Context, cfg *config.Config) (storage.FileStore, error) {
	switch cfg.StorageBackend {
	case config.StorageSupabase:
		return supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket), nil
	case config.StorageS3:
		opts := storage.S3Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		}
		client, err := storage.NewS3Client(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 client: %w", err)
		}
		return storage.NewS3Store(client, opts), nil
	default:
		store, err := storage.NewLocalStore(cfg.StorageRoot, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		return store, nil
	}
}
