// Package api exposes the OpenAI-compatible HTTP surface: completion,
// chat completion, embeddings and model management endpoints on top of
// an engine provider.
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/synapforge/forgellm/internal/logger"
)

type Server struct {
	provider EngineProvider
	log      logger.Logger
	clock    func() time.Time
}

func NewServer(provider EngineProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		provider: provider,
		log:      log,
		clock:    time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.handleHealth)
	e.GET("/v1/health", s.handleHealth)

	e.POST("/v1/completions", s.handleCompletions)
	e.POST("/v1/chat/completions", s.handleChatCompletions)
	e.POST("/v1/embeddings", s.handleEmbeddings)

	e.GET("/v1/models", s.handleListModels)
	e.GET("/v1/models/:id", s.handleRetrieveModel)
	e.DELETE("/v1/models/:id", s.handleDeleteModel)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
