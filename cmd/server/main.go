package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/oryx-ai/modelhub/cmd"
	"github.com/oryx-ai/modelhub/internal/cache"
	memorycache "github.com/oryx-ai/modelhub/internal/cache/memory"
	rediscache "github.com/oryx-ai/modelhub/internal/cache/redis"
	"github.com/oryx-ai/modelhub/internal/config"
	"github.com/oryx-ai/modelhub/internal/logger"
	"github.com/oryx-ai/modelhub/internal/platform/otel"
	"github.com/oryx-ai/modelhub/internal/registry"
	"github.com/oryx-ai/modelhub/internal/server"
	"github.com/oryx-ai/modelhub/internal/settings"
	"github.com/oryx-ai/modelhub/pkg/api"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logger.Initialize(cfg.Server.Env)
	defer logger.Sync()
	log := logger.Get()

	cmd.CheckForUpdates()

	api.InitValidator()

	shutdownTracer, err := otel.InitTracer("modelhub", log, os.Stdout)
	if err != nil {
		log.Fatal("failed to init tracer", zap.Error(err))
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	var store settings.Store
	switch cfg.Settings.Driver {
	case "memory":
		store = settings.NewMemoryStore()
	default:
		store, err = settings.NewSQLiteStore(cfg.Settings.DSN)
		if err != nil {
			log.Fatal("failed to open settings store", zap.Error(err))
		}
	}
	defer func() {
		_ = store.Close()
	}()

	var c cache.CacheService
	if cfg.Redis.Enabled {
		c, err = rediscache.NewRedisCache(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, falling back to in-memory cache", zap.Error(err))
			c = memorycache.NewMemoryCache()
		}
	} else {
		c = memorycache.NewMemoryCache()
	}

	svc := registry.NewService(store, log)

	srv := server.New(cfg, log, svc, c, nil)
	if err := srv.Run(); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
