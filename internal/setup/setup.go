package setup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jaxron/axonet/middleware/retry"
	"github.com/jaxron/axonet/middleware/singleflight"
	"github.com/jaxron/axonet/pkg/client"
	"github.com/wakatop/wakatop/internal/database"
	"github.com/wakatop/wakatop/internal/redis"
	"github.com/wakatop/wakatop/internal/setup/config"
	"github.com/wakatop/wakatop/internal/waka"
	"go.uber.org/zap"
)

// App bundles all core dependencies and services needed by the application.
// Each field represents a major subsystem that needs initialization and cleanup.
type App struct {
	Config       *config.Config  // Application configuration
	Logger       *zap.Logger     // Main application logger
	DBLogger     *zap.Logger     // Database-specific logger
	DB           database.Client // User registry connection pool
	RedisManager *redis.Manager  // Redis connection manager
	WakaClient   *waka.Client    // WakaTime API client
	Location     *time.Location  // Timezone anchoring window boundaries
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
func InitializeApp(ctx context.Context, logDir string) (*App, error) {
	// Load app configuration
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logger, dbLogger, err := GetLoggers(logDir, cfg.Common.Debug.LogLevel, cfg.Common.Debug.MaxLogsToKeep)
	if err != nil {
		return nil, err
	}

	// Window boundaries are pinned to a configured timezone so day
	// boundaries do not depend on where the process happens to run
	location, err := time.LoadLocation(cfg.Common.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Common.Timezone, err)
	}

	// Redis manager provides connection pools for the cache
	redisManager := redis.NewManager(&cfg.Common.Redis, logger)

	// Initialize the user registry
	db, err := database.NewConnection(ctx, &cfg.Common.PostgreSQL, dbLogger.Named("database"))
	if err != nil {
		return nil, err
	}

	// WakaTime client is configured with a middleware chain; a bounded
	// timeout guards against the external API's untrusted latency
	httpClient := client.NewClient(
		client.WithMarshalFunc(sonic.Marshal),
		client.WithUnmarshalFunc(sonic.Unmarshal),
		client.WithLogger(NewLogger(logger)),
		client.WithTimeout(cfg.Common.WakaTime.GetRequestTimeout()),
		client.WithMiddleware(retry.New(
			cfg.Common.Retry.MaxRetries,
			time.Duration(cfg.Common.Retry.Delay)*time.Millisecond,
			time.Duration(cfg.Common.Retry.MaxDelay)*time.Millisecond,
		)),
		client.WithMiddleware(singleflight.New()),
	)
	wakaClient := waka.NewClient(httpClient, cfg.Common.WakaTime.BaseURL, logger)

	// Bundle all initialized components
	return &App{
		Config:       cfg,
		Logger:       logger,
		DBLogger:     dbLogger,
		DB:           db,
		RedisManager: redisManager,
		WakaClient:   wakaClient,
		Location:     location,
	}, nil
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup() {
	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.DBLogger.Sync(); err != nil {
		log.Printf("Failed to sync DB logger: %v", err)
	}

	// Close database connections
	if err := s.DB.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
	}

	// Close Redis connections last as other components might need it during cleanup
	s.RedisManager.Close()
}
