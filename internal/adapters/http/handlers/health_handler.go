package handlers

import (
	"masarify/internal/config"
	"masarify/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root returns basic service info
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, "Masarify API", fiber.Map{
		"service": "masarify",
		"docs":    "/swagger/index.html",
	})
}

// Check returns service health including database connectivity
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := config.HealthCheck(); err != nil {
		dbStatus = "down"
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"message": "Service unhealthy",
			"data": fiber.Map{
				"database": dbStatus,
			},
		})
	}

	return response.Success(c, "Service healthy", fiber.Map{
		"database": dbStatus,
	})
}
