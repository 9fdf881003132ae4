package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/tuuze/pkg/auth"
	"github.com/example/tuuze/pkg/config"
	"github.com/example/tuuze/pkg/repository"
	"github.com/example/tuuze/pkg/workflow"
	"github.com/example/tuuze/server"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	useMemory := flag.Bool("memory", false, "run against in-memory repositories (development only)")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting Tuuze API",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port))

	deps, cleanup, err := buildDeps(cfg, logger, *useMemory)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer cleanup()

	srv := server.NewServer(cfg, logger, deps)
	srv.SetupRoutes()

	// Start server in goroutine
	srvErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			srvErr <- err
		}
	}()

	logger.Info("Server started successfully")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-srvErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func buildDeps(cfg *config.Config, logger *zap.Logger, useMemory bool) (server.Deps, func(), error) {
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	if useMemory {
		logger.Warn("Running with in-memory repositories; data will not survive a restart")
		mem := repository.NewMemory()
		engine := workflow.NewEngine(mem.Stores(), mem.Products(), mem.Orders(),
			cfg.Orders.AllowAnyTransition, logger)
		return server.Deps{
			Users:    mem.Users(),
			Stores:   mem.Stores(),
			Products: mem.Products(),
			Orders:   mem.Orders(),
			Engine:   engine,
			Tokens:   tokens,
		}, func() {}, nil
	}

	mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		return server.Deps{}, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := mongoRepo.Ping(ctx); err != nil {
		return server.Deps{}, nil, err
	}
	if err := mongoRepo.EnsureIndexes(ctx); err != nil {
		return server.Deps{}, nil, err
	}
	logger.Info("MongoDB connected successfully", zap.String("database", cfg.MongoDB.Database))

	var cache *repository.RedisRepository
	if cfg.Redis.Addr != "" {
		cache = repository.NewRedisRepository(&cfg.Redis)
		if err := cache.Ping(ctx); err != nil {
			logger.Warn("Redis connection failed, continuing without cache", zap.Error(err))
			cache = nil
		} else {
			logger.Info("Redis connected successfully")
		}
	}

	users := mongoRepo.Users()
	stores := mongoRepo.Stores()
	products := mongoRepo.Products()
	orders := mongoRepo.Orders()
	engine := workflow.NewEngine(stores, products, orders, cfg.Orders.AllowAnyTransition, logger)

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cache != nil {
			_ = cache.Close()
		}
		if err := mongoRepo.Close(ctx); err != nil {
			logger.Error("Failed to close MongoDB connection", zap.Error(err))
		}
	}

	return server.Deps{
		Users:    users,
		Stores:   stores,
		Products: products,
		Orders:   orders,
		Engine:   engine,
		Tokens:   tokens,
		Cache:    cache,
	}, cleanup, nil
}
