package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/finwise/chatbot-backend/internal/api"
	chatapi "github.com/finwise/chatbot-backend/internal/api/chat"
	"github.com/finwise/chatbot-backend/internal/config"
	"github.com/finwise/chatbot-backend/internal/integration/completion"
	"github.com/finwise/chatbot-backend/internal/integration/vector"
	"github.com/finwise/chatbot-backend/internal/repository"
	"github.com/finwise/chatbot-backend/internal/usecase/chat"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	knowledgeRepo := repository.NewKnowledgePostgres(db)
	chatLogRepo := repository.NewChatLogPostgres(db)
	logger.Info("Repositories initialized")

	// Initialize external service connectors (with mock support)
	var completionConn chat.CompletionConnector
	var vectorConn chat.VectorConnector

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		completionConn = completion.NewMockConnector(logger)
		vectorConn = vector.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		completionConn = completion.NewConnector(cfg.CompletionConnectorCfg, logger)
		vectorConn = vector.NewConnector(cfg.VectorConnectorCfg, logger)
	}

	// Initialize pipeline components
	rateLimiter := chat.NewRateLimiter(cfg.ChatCfg.RateLimitPerMinute, logger)
	sanitizer := chat.NewSanitizer()
	retriever := chat.NewSourceRetriever(
		knowledgeRepo,
		vectorConn,
		cfg.ChatCfg.RetrievalCacheTTL,
		cfg.VectorConnectorCfg.SearchTimeout,
		logger,
	)

	chatUC := chat.NewUsecase(
		rateLimiter,
		sanitizer,
		retriever,
		completionConn,
		chatLogRepo,
		cfg.ChatCfg.RetrievalTopK,
		logger,
	)
	logger.Info("Chat pipeline initialized",
		zap.Int("rate_limit_per_minute", cfg.ChatCfg.RateLimitPerMinute),
		zap.Int("retrieval_top_k", cfg.ChatCfg.RetrievalTopK),
	)

	// Setup API handlers
	chatHandler := chatapi.NewHandler(chatUC)

	// Setup router
	router := api.SetupRouter(chatHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}
