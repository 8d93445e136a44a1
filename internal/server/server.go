package server

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oryx-ai/modelhub/internal/cache"
	"github.com/oryx-ai/modelhub/internal/config"
	"github.com/oryx-ai/modelhub/internal/registry"
	"github.com/oryx-ai/modelhub/internal/server/middleware"
	v1 "github.com/oryx-ai/modelhub/internal/server/v1"
)

type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  *zap.Logger
	svc     *registry.Service
	cache   cache.CacheService
	factory v1.GeneratorFactory
}

// New assembles the gin engine with global middleware and all routes.
// factory may be nil to use the default generator dispatch.
func New(cfg *config.Config, logger *zap.Logger, svc *registry.Service, c cache.CacheService, factory v1.GeneratorFactory) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(ginzap.RecoveryWithZap(logger, true))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(logger))

	s := &Server{
		router:  engine,
		config:  cfg,
		logger:  logger,
		svc:     svc,
		cache:   c,
		factory: factory,
	}

	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run blocks serving HTTP on the configured port.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:              ":" + s.config.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("listening", zap.String("port", s.config.Server.Port))
	return srv.ListenAndServe()
}
