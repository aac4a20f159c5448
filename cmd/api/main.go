package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/futurito/concierge-ai/internal/api/router"
	"github.com/futurito/concierge-ai/internal/catalog"
	"github.com/futurito/concierge-ai/internal/channels/whatsapp"
	appconfig "github.com/futurito/concierge-ai/internal/config"
	"github.com/futurito/concierge-ai/internal/conversation"
	"github.com/futurito/concierge-ai/internal/crm"
	"github.com/futurito/concierge-ai/internal/observability/metrics"
	"github.com/futurito/concierge-ai/internal/profile"
	"github.com/futurito/concierge-ai/internal/visitors"
	"github.com/futurito/concierge-ai/pkg/logging"
)

func main() {
	// Load .env in development; ignored when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting concierge-ai API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Redis backs the working history and the interaction counters.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}

	// Postgres is optional: without it the visitor registry falls back to
	// memory and transcripts are skipped.
	var visitorRepo visitors.Repository
	var transcripts *conversation.TranscriptStore
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		if err := db.Ping(); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		transcripts = conversation.NewTranscriptStore(db)

		pool, err := newPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		visitorRepo = visitors.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory visitor repository")
		visitorRepo = visitors.NewInMemoryRepository()
	}

	var llm conversation.LLMClient
	if cfg.GeminiAPIKey != "" {
		gemini, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		llm = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, replies will be static")
	}

	pipedrive := crm.NewPipedriveClient(cfg.PipedriveAPIToken)
	if cfg.PipedriveBaseURL != "" {
		pipedrive.SetBaseURL(cfg.PipedriveBaseURL)
	}
	handoff := crm.NewHandoff(pipedrive, cfg.PipedrivePipelineID, logger)

	var catalogSource catalog.Source
	if cfg.CatalogBaseURL != "" {
		catalogSource = catalog.NewHTTPSource(cfg.CatalogBaseURL)
	} else {
		logger.Warn("CATALOG_BASE_URL not set, catalog resolution runs without candidates")
		catalogSource = catalog.NewStaticSource(nil)
	}

	concierge := metrics.NewConciergeMetrics(nil)

	service := conversation.NewService(conversation.Deps{
		Logger:        logger,
		Accumulator:   profile.NewAccumulator(),
		Registrar:     visitorRepo,
		Notifier:      handoff,
		CatalogSource: catalogSource,
		LLM:           llm,
		History:       conversation.NewHistoryStore(redisClient),
		Transcripts:   transcripts,
		Interactions:  conversation.NewInteractionCounter(redisClient),
		Contexts:      conversation.NewContextStore(cfg.ContextsDir, cfg.DefaultContext),
		Metrics:       concierge,
		Model:         cfg.GeminiModel,
	})

	var whatsappAdapter *whatsapp.Adapter
	if cfg.WhatsAppAccessToken != "" {
		whatsappAdapter = whatsapp.NewAdapter(whatsapp.AdapterConfig{
			AccessToken:   cfg.WhatsAppAccessToken,
			PhoneNumberID: cfg.WhatsAppPhoneNumberID,
			AppSecret:     cfg.WhatsAppAppSecret,
			VerifyToken:   cfg.WhatsAppVerifyToken,
			ContextName:   cfg.WhatsAppContext,
		}, service, logger)
	}

	r := router.New(&router.Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(service, logger),
		VisitorsHandler:     visitors.NewHandler(visitorRepo, logger),
		CRMHandler:          crm.NewHandler(visitorRepo, handoff, logger),
		WhatsAppAdapter:     whatsappAdapter,
		MetricsHandler:      promhttp.Handler(),
		APIKey:              cfg.APIKey,
		AdminAuthSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
