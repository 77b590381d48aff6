package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/barterqween/barter-api/internal/api"
	"github.com/barterqween/barter-api/internal/core/service"
	mongorepo "github.com/barterqween/barter-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/barterqween/barter-api/internal/infrastructure/db/redis"
	"github.com/barterqween/barter-api/internal/infrastructure/storage/cloudinary"
	"github.com/barterqween/barter-api/internal/pkg/config"
	"github.com/barterqween/barter-api/pkg/logger"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	store, err := cloudinary.New(cloudinary.Config{
		CloudName:    cfg.Cloudinary.CloudName,
		APIKey:       cfg.Cloudinary.APIKey,
		APISecret:    cfg.Cloudinary.APISecret,
		UploadFolder: cfg.Cloudinary.UploadFolder,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("cloudinary init failed")
	}

	userRepo := mongorepo.NewUserRepository(db)
	itemRepo := mongorepo.NewItemRepository(db)
	tradeRepo := mongorepo.NewTradeRepository(db)
	for name, ensure := range map[string]func(context.Context) error{
		"users":  userRepo.EnsureIndexes,
		"items":  itemRepo.EnsureIndexes,
		"trades": tradeRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	reconciler := service.NewReconciler(userRepo, itemRepo, tradeRepo, cfg.ReconcileInterval, log)
	reconciler.Start(ctx)

	e := api.NewRouter(api.Deps{
		Client:    client,
		DB:        db,
		Redis:     rdb,
		Storage:   store,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Log:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
