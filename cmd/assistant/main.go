package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"iris-assistant/internal/adapters/fileopen"
	"iris-assistant/internal/adapters/llm"
	"iris-assistant/internal/adapters/search"
	"iris-assistant/internal/adapters/weather"
	"iris-assistant/internal/adapters/youtube"
	"iris-assistant/internal/common/config"
	"iris-assistant/internal/common/database"
	"iris-assistant/internal/common/logger"
	"iris-assistant/internal/common/observability"
	"iris-assistant/internal/common/validation"
	"iris-assistant/internal/dispatch"
	"iris-assistant/internal/server"
	"iris-assistant/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting assistant...",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	validator, err := validation.New()
	if err != nil {
		zapLog.Fatal("schema compilation failed", zap.Error(err))
	}

	adapterTimeout := cfg.Assistant.Timeout()

	llmClient := llm.NewClient(&llm.Config{
		BaseURL:       cfg.LLM.BaseURL,
		APIKey:        cfg.LLM.APIKey,
		Model:         cfg.LLM.Model,
		QuickModel:    cfg.LLM.QuickModel,
		Temperature:   cfg.LLM.Temperature,
		HistoryWindow: cfg.LLM.HistoryWindow,
		Timeout:       adapterTimeout,
	}, log)

	searchClient := search.NewClient(&search.Config{
		BaseURL:    cfg.Search.BaseURL,
		APIKey:     cfg.Search.APIKey,
		EngineID:   cfg.Search.EngineID,
		MaxResults: cfg.Search.MaxResults,
		MaxImages:  cfg.Search.MaxImages,
		Timeout:    adapterTimeout,
	}, log)

	youtubeClient := youtube.NewClient(&youtube.Config{
		BaseURL:    cfg.YouTube.BaseURL,
		APIKey:     cfg.YouTube.APIKey,
		MaxResults: cfg.YouTube.MaxResults,
		Timeout:    adapterTimeout,
	}, log)

	weatherClient := weather.NewClient(&weather.Config{
		GeocodeBaseURL:  cfg.Weather.GeocodeBaseURL,
		ForecastBaseURL: cfg.Weather.ForecastBaseURL,
		Timeout:         adapterTimeout,
	}, log)

	opener := fileopen.NewOpener(log)

	dispatcher := dispatch.New(dispatch.Config{
		FallbackCity: cfg.Assistant.FallbackCity,
		MaxResults:   cfg.Search.MaxResults,
		MaxImages:    cfg.Search.MaxImages,
		MaxVideos:    cfg.YouTube.MaxResults,
	}, llmClient, searchClient, youtubeClient, weatherClient, opener, obs, log)

	rdb := redisClient.GetClient()
	srv := server.New(
		cfg.Server,
		validator,
		store.NewCredentialStore(rdb, log),
		store.NewSessionStore(rdb, 24*time.Hour),
		store.NewConversationStore(rdb, cfg.Assistant.HistoryLimit, log),
		dispatcher,
		redisClient,
		log,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		zapLog.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Error("server exited", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("assistant stopped")
}
