package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"painting-demo/internal/application/services"
	"painting-demo/internal/application/usecases"
	"painting-demo/internal/config"
	"painting-demo/internal/domain/entities"
	domainrepos "painting-demo/internal/domain/repositories"
	domainservices "painting-demo/internal/domain/services"
	"painting-demo/internal/infrastructure/api"
	"painting-demo/internal/infrastructure/external"
	"painting-demo/internal/infrastructure/logger"
	"painting-demo/internal/infrastructure/metrics"
	"painting-demo/internal/infrastructure/repositories"
	infraservices "painting-demo/internal/infrastructure/services"
)

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// インフラ層を初期化
	clientPool := infraservices.NewGenAIClientPool(&domainrepos.AIClientConfig{
		Backend:   domainrepos.GenAIBackend(cfg.GenAIBackend),
		APIKey:    cfg.GeminiAPIKey,
		ProjectID: cfg.ProjectID,
		Location:  cfg.Location,
	})
	defer clientPool.Close()

	sessionRepository, frameStore, closeStore, err := newStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize session store")
	}
	defer closeStore()

	paintingModel := external.NewGeminiPaintingService(clientPool, log)
	geocoder := external.NewGeocodingService(cfg.MapsBaseURL, cfg.MapsAPIKey)

	var captureProvider domainrepos.CaptureProvider
	if cfg.UsesStaticMapCapture() {
		captureProvider = external.NewStaticMapCaptureService(cfg.MapsBaseURL, cfg.MapsAPIKey, log)
	} else {
		captureProvider = external.NewFrameCaptureService(frameStore)
	}
	captureProvider = metrics.InstrumentCaptureProvider(cfg.CaptureProvider, captureProvider)

	// ドメイン層を初期化
	paintingService := domainservices.NewPaintingDomainService(paintingModel,
		domainservices.WithModelName(cfg.PaintingModel),
		domainservices.WithAttemptObserver(attemptObserver(log)),
	)

	// アプリケーション層を初期化
	sessionUseCase := usecases.NewSessionUseCase(sessionRepository, frameStore, geocoder)
	paintingUseCase := usecases.NewPaintingUseCase(sessionRepository, captureProvider, metrics.InstrumentGenerator(paintingService), log)
	parameterService := services.NewParameterService()

	// API層を初期化
	handler := api.NewPaintingHandler(sessionUseCase, paintingUseCase, parameterService, log, cfg.MaxBodyBytes)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(handler, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("backend", cfg.GenAIBackend).
			Str("model", cfg.PaintingModel).
			Str("capture_provider", cfg.CaptureProvider).
			Str("session_store", cfg.SessionStore).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped with error")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown server")
	}

	log.Info().Msg("server exited cleanly")
}

func newStores(ctx context.Context, cfg *config.Config) (domainrepos.SessionRepository, domainrepos.FrameStore, func(), error) {
	if !cfg.IsRedisStore() {
		return repositories.NewMemorySessionRepository(), repositories.NewMemoryFrameStore(cfg.SessionTTL), func() {}, nil
	}

	redisConfig := repositories.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Prefix:   cfg.RedisPrefix,
		TTL:      cfg.SessionTTL,
	}
	client, err := repositories.NewRedisClient(ctx, redisConfig)
	if err != nil {
		return nil, nil, nil, err
	}

	return repositories.NewRedisSessionRepository(client, redisConfig),
		repositories.NewRedisFrameStore(client, redisConfig),
		func() { _ = client.Close() },
		nil
}

func attemptObserver(log zerolog.Logger) domainservices.AttemptObserver {
	return func(attempt entities.GenerationAttempt) {
		metrics.ObserveAttempt(attempt)

		event := log.Info()
		if attempt.Outcome != entities.AttemptSucceeded {
			event = log.Warn().Err(attempt.Err)
		}
		event.
			Int("attempt", attempt.Number).
			Str("outcome", string(attempt.Outcome)).
			Dur("elapsed", attempt.Elapsed).
			Dur("backoff", attempt.Backoff).
			Msg("painting attempt")
	}
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
