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

	_ "docforge/docs" // This is for Swagger
	"docforge/internal/config"
	"docforge/internal/database"
	"docforge/internal/handlers"
	"docforge/internal/llm"
	"docforge/internal/logger"
	"docforge/internal/middleware"
	"docforge/internal/repository"
	"docforge/internal/service"
	"docforge/internal/vault"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title DocForge API
// @version 1.0
// @description LLM-assisted, human-approved business document generation service

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logger
	logger.Setup(logger.Config{
		Level: cfg.Log.Level,
	})

	slog.Info("Starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
		"log_level", cfg.Log.Level,
	)

	// Load the model API key from Vault when enabled
	if cfg.Vault.Enabled {
		vaultClient, err := vault.NewClient(cfg.Vault)
		if err != nil {
			slog.Error("Failed to initialize Vault client", "error", err)
			os.Exit(1)
		}
		if err := vaultClient.Health(); err != nil {
			slog.Error("Vault is not healthy", "error", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		apiKey, err := vaultClient.GetAPIKey(ctx, cfg.Vault.SecretPath, cfg.Vault.APIKeyName)
		cancel()
		if err != nil {
			slog.Error("Failed to load model API key from Vault", "error", err)
			os.Exit(1)
		}
		cfg.LLM.APIKey = apiKey
		slog.Info("Model API key loaded from Vault", "vault_addr", cfg.Vault.Address)
	}

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func(db *database.Database) {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}(db)

	slog.Info("Database connection established")

	// Run database migrations
	migrator := database.NewMigrationExecutor(db.DB)
	if err := migrator.RunMigrations("./migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	// Initialize repositories
	templateRepo := repository.NewTemplateRepository(db.DB)
	sessionRepo := repository.NewSessionRepository(db.DB)
	questionRepo := repository.NewQuestionRepository(db.DB)
	draftRepo := repository.NewDraftRepository(db.DB)
	documentRepo := repository.NewDocumentRepository(db.DB)

	// Initialize services
	provider := llm.NewProvider(&cfg.LLM)
	questionService := service.NewQuestionService(provider)
	sectionService := service.NewSectionService(provider)
	orchestrator := service.NewOrchestrator(
		sessionRepo,
		templateRepo,
		questionRepo,
		draftRepo,
		documentRepo,
		questionService,
		sectionService,
	)
	exportService := service.NewExportService()
	notionService := service.NewNotionService(cfg.Notion)

	// Initialize middleware
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(orchestrator, exportService, notionService)
	catalogHandler := handlers.NewCatalogHandler(templateRepo)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /departments/", catalogHandler.ListDepartments)
	mux.HandleFunc("GET /templates/", catalogHandler.ListTemplates)

	mux.HandleFunc("POST /sessions/", sessionHandler.Create)
	mux.HandleFunc("DELETE /sessions/{id}", sessionHandler.Delete)
	mux.HandleFunc("GET /sessions/{id}/current_section", sessionHandler.CurrentSection)
	mux.HandleFunc("POST /sessions/{id}/generate_questions", sessionHandler.GenerateQuestions)
	mux.HandleFunc("POST /sessions/{id}/submit_answers", sessionHandler.SubmitAnswers)
	mux.HandleFunc("POST /sessions/{id}/generate_section", sessionHandler.GenerateSection)
	mux.HandleFunc("POST /sessions/{id}/approve_section", sessionHandler.ApproveSection)
	mux.HandleFunc("POST /sessions/{id}/enhance_section", sessionHandler.EnhanceSection)
	mux.HandleFunc("GET /sessions/{id}/sections", sessionHandler.ListSections)
	mux.HandleFunc("POST /sessions/{id}/compile", sessionHandler.Compile)
	mux.HandleFunc("GET /sessions/{id}/download_pdf", sessionHandler.DownloadPDF)
	mux.HandleFunc("POST /sessions/{id}/publish_notion", sessionHandler.PublishNotion)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.HealthCheck(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			if _, err := w.Write([]byte(`{"status":"unhealthy","database":"error"}`)); err != nil {
				slog.Error("Failed to write health check response", "error", err)
			}
			return
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy","version":"` + cfg.App.Version + `"}`)); err != nil {
			slog.Error("Failed to write health check response", "error", err)
		}
	})

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Apply global middleware
	handler := middleware.LoggingMiddleware(
		middleware.SecurityHeaders(
			corsMw.Handler(
				rateLimiter.Limit(mux),
			),
		),
	)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
