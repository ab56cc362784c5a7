package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/finwise/chatbot-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Chat pipeline configuration
	ChatCfg ChatConfig `envPrefix:"CHAT_"`

	// External service configurations
	CompletionConnectorCfg CompletionConnectorConfig `envPrefix:"COMPLETION_"`
	VectorConnectorCfg     VectorConnectorConfig     `envPrefix:"VECTOR_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// ChatConfig holds the message pipeline knobs
type ChatConfig struct {
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RetrievalTopK      int           `env:"RETRIEVAL_TOP_K" envDefault:"5"`
	RetrievalCacheTTL  time.Duration `env:"RETRIEVAL_CACHE_TTL" envDefault:"1m"`
}

// CompletionConnectorConfig configures the completion service client
type CompletionConnectorConfig struct {
	HTTPClientConfig
	CompleteEndpoint string               `env:"COMPLETE_ENDPOINT" envDefault:"/v1/complete"`
	Model            string               `env:"MODEL" envDefault:"gpt-3.5-turbo"`
	Retry            pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// VectorConnectorConfig configures the optional vector similarity client.
// The connector is used only when Enabled is set and both the service URL and
// token are non-empty; otherwise retrieval runs keyword-only.
type VectorConnectorConfig struct {
	HTTPClientConfig
	Enabled        bool          `env:"ENABLED" envDefault:"false"`
	SearchEndpoint string        `env:"SEARCH_ENDPOINT" envDefault:"/v1/search"`
	SearchTimeout  time.Duration `env:"SEARCH_TIMEOUT" envDefault:"2s"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"10s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	// Validate chat pipeline configuration
	if cfg.ChatCfg.RateLimitPerMinute < 1 || cfg.ChatCfg.RateLimitPerMinute > 1000 {
		errors = append(errors, fmt.Sprintf("CHAT_RATE_LIMIT_PER_MINUTE must be between 1 and 1000, got %d", cfg.ChatCfg.RateLimitPerMinute))
	}

	if cfg.ChatCfg.RetrievalTopK < 1 || cfg.ChatCfg.RetrievalTopK > 50 {
		errors = append(errors, fmt.Sprintf("CHAT_RETRIEVAL_TOP_K must be between 1 and 50, got %d", cfg.ChatCfg.RetrievalTopK))
	}

	if cfg.VectorConnectorCfg.SearchTimeout < 100*time.Millisecond || cfg.VectorConnectorCfg.SearchTimeout > 30*time.Second {
		errors = append(errors, fmt.Sprintf("VECTOR_SEARCH_TIMEOUT must be between 100ms and 30s, got %s", cfg.VectorConnectorCfg.SearchTimeout))
	}

	// The vector service is optional, but when switched on it needs an
	// address and credential to talk to.
	if cfg.VectorConnectorCfg.Enabled && !cfg.EnableMocks {
		if cfg.VectorConnectorCfg.Url == "" {
			errors = append(errors, "VECTOR_SERVICE_URL must be set when VECTOR_ENABLED is true")
		}
		if cfg.VectorConnectorCfg.Token == "" {
			errors = append(errors, "VECTOR_TOKEN must be set when VECTOR_ENABLED is true")
		}
	}

	if !cfg.EnableMocks && cfg.CompletionConnectorCfg.Url == "" {
		errors = append(errors, "COMPLETION_SERVICE_URL must be set when mocks are disabled")
	}

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
