package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-pricing-service/config"
	"github.com/fekuna/omnipos-pricing-service/internal/httpapi"
	"github.com/fekuna/omnipos-pricing-service/internal/metrics"
	"github.com/fekuna/omnipos-pricing-service/pkg/broker"
	"github.com/fekuna/omnipos-pricing-service/pkg/cache"
	"github.com/fekuna/omnipos-pricing-service/pkg/database"
	"github.com/fekuna/omnipos-pricing-service/pkg/hashid"
	"github.com/fekuna/omnipos-pricing-service/pkg/logger"

	colH "github.com/fekuna/omnipos-pricing-service/internal/column/handler"
	colRepoPkg "github.com/fekuna/omnipos-pricing-service/internal/column/repository"
	colUCPkg "github.com/fekuna/omnipos-pricing-service/internal/column/usecase"

	invH "github.com/fekuna/omnipos-pricing-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-pricing-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-pricing-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-pricing-service/internal/inventory/usecase"

	locH "github.com/fekuna/omnipos-pricing-service/internal/location/handler"
	locRepoPkg "github.com/fekuna/omnipos-pricing-service/internal/location/repository"
	locUCPkg "github.com/fekuna/omnipos-pricing-service/internal/location/usecase"

	optH "github.com/fekuna/omnipos-pricing-service/internal/options/handler"
	optRepoPkg "github.com/fekuna/omnipos-pricing-service/internal/options/repository"
	optUCPkg "github.com/fekuna/omnipos-pricing-service/internal/options/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := database.NewDB(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		SQLitePath:      cfg.Database.SQLitePath,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to database", zap.String("driver", cfg.Database.Driver), zap.String("db_name", cfg.Database.DBName))

	// 3.5 Initialize ID codec
	if cfg.HashID.Salt == "" {
		appLogger.Warn("HASHID_SALT is empty, location tokens are guessable")
	}
	codec, err := hashid.New(hashid.Config{Salt: cfg.HashID.Salt, MinLength: cfg.HashID.MinLength})
	if err != nil {
		appLogger.Fatal("Could not build id codec", zap.Error(err))
	}

	// 4. Initialize Repositories
	locRepo := locRepoPkg.NewSQLRepository(db)
	colRepo := colRepoPkg.NewSQLRepository(db)
	optRepo := optRepoPkg.NewSQLRepository(db)
	invRepo := invRepoPkg.NewSQLRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := locRepo.Initialize(ctx); err != nil {
		appLogger.Fatal("Could not initialize locations schema", zap.Error(err))
	}
	if err := colRepo.Initialize(ctx); err != nil {
		appLogger.Fatal("Could not initialize columns schema", zap.Error(err))
	}
	if err := optRepo.Initialize(ctx); err != nil {
		appLogger.Fatal("Could not initialize options schema", zap.Error(err))
	}

	// 5. Initialize Redis
	var redisClient *cache.RedisClient
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, column cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 6. Initialize UseCases
	colUC := colUCPkg.NewColumnUseCase(colRepo, invRepo, redisClient, cfg.Redis.TTL, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, colUC, appLogger)
	optUC := optUCPkg.NewOptionsUseCase(optRepo, appLogger)
	locUC := locUCPkg.NewLocationUseCase(locRepo, colUC, optUC, invUC, codec, appLogger)

	appMetrics := metrics.New()

	// 6.5 Initialize Listeners
	if cfg.Kafka.Enabled {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		importListener := invListenerPkg.NewImportListener(kafkaConsumer, invUC, codec, appMetrics, appLogger)
		go importListener.Start(ctx)
	}

	// 7. Initialize Handlers
	router := httpapi.NewRouter(appLogger, appMetrics, cfg.Server.RequestTimeout,
		locH.NewLocationHandler(locUC, codec, appLogger),
		invH.NewInventoryHandler(invUC, codec, appLogger),
		colH.NewColumnHandler(colUC, codec, appLogger),
		optH.NewOptionsHandler(optUC, codec, appLogger),
	)

	// 8. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:              port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
