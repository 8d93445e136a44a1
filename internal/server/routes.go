package server

import (
	"github.com/oryx-ai/modelhub/internal/server/middleware"
	v1 "github.com/oryx-ai/modelhub/internal/server/v1"
)

const serviceName = "modelhub"

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Tracing(serviceName))
	s.router.Use(middleware.ErrorHandler(s.logger))

	healthHandler := v1.NewHealthHandler()
	s.router.GET("/health", healthHandler.Health)

	limiter := middleware.NewRateLimiter(
		s.config.RateLimit.RequestsPerSecond,
		s.config.RateLimit.Burst,
		s.logger,
	)

	api := s.router.Group("/v1")
	api.Use(middleware.Auth(s.config.Server.APIKeys))
	api.Use(limiter.Middleware())
	{
		modelHandler := v1.NewModelHandler(s.svc, s.cache)
		api.GET("/models", modelHandler.ListModels)
		api.GET("/models/current", modelHandler.CurrentModel)
		api.PUT("/models/current", modelHandler.SetCurrentModel)
		api.PUT("/providers/:provider/key", modelHandler.SetProviderKey)

		generateHandler := v1.NewGenerateHandler(s.svc, s.config.Gemini, s.factory)
		api.POST("/generate", generateHandler.Generate)
		api.POST("/tokens/count", generateHandler.CountTokens)
		api.POST("/embeddings", generateHandler.Embed)
	}
}
