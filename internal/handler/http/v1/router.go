package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all API v1 routes. Everything except the health
// endpoint sits behind the API key when keys are configured.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/system/health", h.healthCheck)

	protected := api.Group("")
	if len(h.cfg.APIKeys) > 0 {
		protected.Use(APIKeyAuthMiddleware(h.cfg, h.logger))
	}

	protected.GET("/nearby", h.nearby)
	protected.GET("/positions", h.getPositions)

	vehicles := protected.Group("/vehicles")
	{
		vehicles.PATCH("/:id/position", h.setVehiclePosition)
		vehicles.DELETE("/:id/position", h.clearVehiclePosition)
	}
}
