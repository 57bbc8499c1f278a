// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all API routes with the Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", h.HandleHealth)

	// Simulation
	apiGroup.POST("/simulate", h.HandleSimulate)
	apiGroup.POST("/simulate/export", h.HandleSimulateExport)
	apiGroup.POST("/parameters/import", h.HandleImportParameters)

	// File management
	apiGroup.POST("/files/upload", h.HandleUploadFile)
	apiGroup.GET("/files/recent", h.HandleRecentFiles)
	apiGroup.GET("/files/:id", h.HandleGetFile)
	apiGroup.DELETE("/files/:id", h.HandleDeleteFile)
	apiGroup.PUT("/files/:id", h.HandleRenameFile)

	// Reconstruction sessions
	apiGroup.POST("/reconstruct", h.HandleStartReconstruction)
	apiGroup.GET("/sessions/:sessionId/status", h.HandleSessionStatus)
	apiGroup.POST("/sessions/:sessionId/keepalive", h.HandleSessionKeepAlive)
	apiGroup.GET("/sessions/:sessionId/series", h.HandleGetSeries)
	apiGroup.GET("/sessions/:sessionId/series/msgpack", h.HandleGetSeriesMsgpack)
	apiGroup.GET("/sessions/:sessionId/export.csv", h.HandleSessionExport)
	apiGroup.DELETE("/sessions/:sessionId", h.HandleDeleteSession)

	// Comparison
	apiGroup.GET("/compare", h.HandleCompare)

	// Monitoring feed
	apiGroup.GET("/monitor/ws", h.HandleMonitorWS)
}
