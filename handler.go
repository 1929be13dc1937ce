package main

import (
	"github.com/gin-gonic/gin"
)

// Handler holds shared dependencies (store, food table, config) for all route handlers.
type Handler struct {
	store         nutritionStore
	foods         *foodTable
	openAIBaseURL string // Base URL for OpenAI API (overridable for tests)
	openAIKey     string
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/foods", h.listFoods)
	api.POST("/foods/suggest", h.suggestFood)
	api.GET("/profile", h.getProfile)
	api.PUT("/profile", h.putProfile)
	api.POST("/profile/targets", h.previewTargets)
	api.GET("/log/entries", h.getEntries)
	api.POST("/log/entries", h.appendEntries)
	api.DELETE("/log/entries/:id", h.deleteEntry)
	api.GET("/log/daily", h.getDailySummary)
	api.GET("/log/weekly", h.getWeeklySummary)
	api.POST("/log/preview", h.previewLog)
	api.POST("/save", h.saveAll)
}
