package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/application/usecase"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/event"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/port"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/service"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/valueobject"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/infrastructure/config"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/infrastructure/messaging"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/infrastructure/ml"
	pgrepo "github.com/AasthaThakker/DhanRaksha-sub001/internal/infrastructure/postgres"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/infrastructure/session"
	grpcpresentation "github.com/AasthaThakker/DhanRaksha-sub001/internal/presentation/grpc"
	"github.com/AasthaThakker/DhanRaksha-sub001/internal/presentation/rest"
	"github.com/AasthaThakker/DhanRaksha-sub001/pkg/auth"
	"github.com/AasthaThakker/DhanRaksha-sub001/pkg/kafka"
	"github.com/AasthaThakker/DhanRaksha-sub001/pkg/observability"
	"github.com/AasthaThakker/DhanRaksha-sub001/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slog.SetDefault(logger)

	logger.Info("starting risk-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Initialize tracing.
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: "risk-service",
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Initialize metrics.
	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: "risk-service",
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := postgres.NewPool(dbCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			logger.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	// Kafka producer.
	producer, err := kafka.NewProducer(kafka.Config{
		Brokers: []string{cfg.KafkaBroker},
		TLS:     cfg.KafkaTLS,
		CAFile:  cfg.KafkaCAFile,
	})
	if err != nil {
		logger.Error("failed to create kafka producer", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	// Wire infrastructure adapters.
	assessmentRepo := pgrepo.NewAssessmentRepository(pool)
	historyRepo := pgrepo.NewHistoryRepository(pool)
	sessionStore := session.NewStore(cfg.SessionCapacity, session.WithTTL(cfg.SessionTTL))
	eventPublisher := messaging.NewKafkaPublisher(producer, map[string]string{
		event.EventTypeAssessmentCompleted:   cfg.AssessmentTopic,
		event.EventTypeUserFlagged:           cfg.FlaggedTopic,
		event.EventTypeNotificationRequested: cfg.NotificationTopic,
	}, cfg.AssessmentTopic, logger)

	var scorerClient port.MLScorerClient
	if cfg.MLEndpoint != "" {
		scorerClient = ml.NewHTTPScorerClient(cfg.MLEndpoint, cfg.MLTimeout, logger)
		logger.Info("ML scorer configured", "endpoint", cfg.MLEndpoint)
	} else {
		scorerClient = ml.NewStubScorerClient()
		logger.Warn("no ML endpoint configured, running heuristic-only")
	}

	// Wire domain services.
	heuristicCfg := service.HeuristicConfig{
		BaseScore:       cfg.BaseScore,
		DayStartHour:    cfg.DayStartHour,
		DayEndHour:      cfg.DayEndHour,
		OffHoursPenalty: cfg.OffHoursPenalty,
		MobilePenalty:   cfg.MobilePenalty,
	}
	heuristicScorer := service.NewHeuristicScorer(
		heuristicCfg.BaseScore,
		service.DefaultHeuristicRules(heuristicCfg),
		valueobject.DefaultEventThresholds(),
	)
	aggregatorCfg := service.DefaultAggregatorConfig()
	aggregatorCfg.AvgWeight = cfg.AvgWeight
	aggregatorCfg.MaxWeight = cfg.MaxWeight
	aggregatorCfg.OverrideThreshold = cfg.OverrideThreshold
	aggregatorCfg.MLTimeout = cfg.MLTimeout

	extractor := service.NewExtractor()
	aggregator := service.NewAggregator(heuristicScorer, scorerClient, service.DefaultContextRules(), aggregatorCfg, logger)
	notifier := service.NewNotifier()

	// Wire use cases.
	evaluateLoginUC := usecase.NewEvaluateLogin(extractor, aggregator, sessionStore, historyRepo, assessmentRepo, eventPublisher, logger)
	evaluateTransactionUC := usecase.NewEvaluateTransaction(extractor, aggregator, notifier, sessionStore, historyRepo, assessmentRepo, eventPublisher, logger)
	getUserRiskUC := usecase.NewGetUserRisk(aggregator, historyRepo, assessmentRepo)

	// JWT validation for the gRPC surface.
	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		Secret:       cfg.JWTSecret,
		PublicKeyPEM: cfg.JWTPublicKeyPEM,
		Issuer:       cfg.JWTIssuer,
		Expiration:   time.Hour,
	})
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// gRPC server.
	grpcHandler := grpcpresentation.NewRiskServiceHandler(evaluateLoginUC, evaluateTransactionUC, getUserRiskUC, logger)
	grpcServer := grpcpresentation.NewServer(grpcHandler, cfg.GRPCAddress(), logger, jwtService)

	// HTTP server (health checks and metrics).
	healthHandler := rest.NewHealthHandler(logger, map[string]rest.ReadinessCheck{
		"database": func(ctx context.Context) error { return postgres.HealthCheck(ctx, pool) },
	})
	httpMux := http.NewServeMux()
	healthHandler.RegisterRoutes(httpMux)
	httpMux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      httpMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("risk-service started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	logger.Info("shutting down risk-service")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("risk-service stopped")
}
