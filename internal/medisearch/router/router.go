// Package router provides MediSearch service routing.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/medisearch/internal/medisearch/handler"
)

// Register registers the MediSearch routes on engine. API routes live
// under apiPrefix; /metrics is served from the root.
func Register(engine *gin.Engine, apiPrefix string, h *handler.Handler) {
	logger.Info("Registering MediSearch routes...")

	api := engine.Group(apiPrefix)
	{
		// Conversation
		api.POST("/chat", h.Chat)
		api.GET("/chat/history/:sessionId", h.History)
		api.GET("/chat/export/:sessionId", h.Export)

		// Search
		api.GET("/search", h.Search)
		api.GET("/analytics/searches", h.Analytics)

		api.GET("/health", h.Health)
	}

	engine.GET("/metrics", h.Metrics)

	logger.Infow("HTTP routes registered", "api_prefix", apiPrefix)
}
