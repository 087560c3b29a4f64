package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/sysalgs.net/internal/adapter/hoststats"
	"gitlab.com/sysalgs.net/internal/adapter/logging"
	"gitlab.com/sysalgs.net/internal/adapter/memory"
	"gitlab.com/sysalgs.net/internal/adapter/postgres/executionrepository"
	"gitlab.com/sysalgs.net/internal/adapter/redis/consolelog"
	"gitlab.com/sysalgs.net/internal/config"
	"gitlab.com/sysalgs.net/internal/core/ports/secondary"
	"gitlab.com/sysalgs.net/internal/core/services/algorithm"
	"gitlab.com/sysalgs.net/internal/core/services/console"
	"gitlab.com/sysalgs.net/internal/core/services/execution"
	"gitlab.com/sysalgs.net/internal/core/services/telemetry"
	"gitlab.com/sysalgs.net/internal/handlers"
	http2 "gitlab.com/sysalgs.net/internal/http"
	"gitlab.com/sysalgs.net/internal/ws"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sysCfg := config.NewSystemConfig()
	logger := logging.NewZapLogger(sysCfg.LogLevel, sysCfg.DebugMode)
	defer func() { _ = logger.Sync() }()
	logger.Info("Starting system algorithms service", "port", sysCfg.ServerConfig.Port)

	ctxBg, cancelBg := context.WithCancel(context.Background())
	defer cancelBg()

	// SECONDARY PORTS
	var executionRepo secondary.ExecutionRepository = memory.NewExecutionRepository()
	if sysCfg.PostgresConfig.Enabled() {
		db, err := setupDatabase(sysCfg.PostgresConfig)
		if err != nil {
			logger.Error("Failed to set up database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pgRepo := executionrepository.NewExecutionRepository(db, logger.Named("postgres"))
		if err := pgRepo.EnsureSchema(ctxBg); err != nil {
			os.Exit(1)
		}
		executionRepo = pgRepo
		logger.Info("Execution history stored in postgres")
	}

	var consoleRepo secondary.ConsoleLogRepository = memory.NewConsoleLogRepository(sysCfg.ConsoleConfig.BacklogSize)
	if sysCfg.RedisConfig.Enabled() {
		redisClient, err := setupRedis(ctxBg, sysCfg.RedisConfig)
		if err != nil {
			logger.Error("Failed to set up redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		consoleRepo = consolelog.NewConsoleLogRepository(redisClient, sysCfg.ConsoleConfig.BacklogSize, logger.Named("redis"))
		logger.Info("Console backlogs stored in redis", "addr", sysCfg.RedisConfig.Url)
	}

	//services
	state := telemetry.NewSharedState()
	sampler := telemetry.NewSampler(hoststats.NewReader(), state, sysCfg.TelemetryConfig.SampleInterval, logger.Named("sampler"))
	hub := console.NewHub(consoleRepo, sysCfg.ConsoleConfig.BufferSize, logger.Named("console"))
	executionSvc := execution.NewExecutionService(executionRepo, hub, logger.Named("execution"))
	algorithmSvc := algorithm.NewAlgorithmService(
		algorithm.NewRegistry(algorithm.DefaultEntries(executionSvc, sysCfg.ExecutionConfig.StepDelay)...),
		logger.Named("algorithm"),
	)
	serviceProvider := http2.NewServiceProvider(state, algorithmSvc, executionSvc)

	go sampler.Start(ctxBg)
	if sysCfg.ConsoleConfig.Heartbeat {
		go hub.StartHeartbeat(ctxBg, sysCfg.ConsoleConfig.PushInterval)
	}

	//server
	wsServer := ws.NewServer(state, hub, logger.Named("ws"),
		ws.WithWriteTimeout(sysCfg.ServerConfig.WriteTimeout),
		ws.WithTelemetryInterval(sysCfg.TelemetryConfig.PushInterval),
		ws.WithConsoleInterval(sysCfg.ConsoleConfig.PushInterval),
	)
	httpServer := http2.NewServer(
		sysCfg.ServerConfig.Port,
		sysCfg.ServerConfig.ServiceName,
		sysCfg.ServerConfig.MaxRequestBytes,
		*serviceProvider,
		handlers.New(sysCfg.JwtConfig.Secret, sysCfg.ServerConfig.AllowOrigin),
		wsServer,
		logger.Named("http"),
	)
	if err := httpServer.Init(); err != nil {
		logger.Error("Failed to init http server", "error", err)
		os.Exit(1)
	}
	if err := httpServer.Start(); err != nil {
		logger.Error("Failed to start http server", "error", err)
		os.Exit(1)
	}

	<-quit
	logger.Info("Shutting down server...")
	cancelBg()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Stop(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	if err := executionSvc.Shutdown(ctx); err != nil {
		logger.Error("Executions did not finish in time", "error", err)
	}

	logger.Info("successfully shutdown server")
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// setupRedis sets up the Redis connection
func setupRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Url,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// InitReader loads <env>.env when an environment name is passed, otherwise
// .env when present.
func InitReader() {
	if len(os.Args) < 2 {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Ignoring .env file: %v", err)
		}
		return
	}

	environment := os.Args[1]
	if err := godotenv.Load(environment + ".env"); err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
