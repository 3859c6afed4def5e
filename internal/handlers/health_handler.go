package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-screening-agent/internal/models"
	"alfredoptarigan/cv-screening-agent/internal/services"
)

type HealthHandler struct {
	evaluator   services.EvaluatorService
	serviceName string
}

func NewHealthHandler(evaluator services.EvaluatorService, serviceName string) *HealthHandler {
	return &HealthHandler{evaluator: evaluator, serviceName: serviceName}
}

// HandleServiceHealth reports "degraded" when no usable model credential is configured.
func (h *HealthHandler) HandleServiceHealth(c *fiber.Ctx) error {
	configured := h.evaluator.HealthCheck()

	status := "healthy"
	if !configured {
		status = "degraded"
	}

	return c.JSON(models.HealthResponse{
		Status:       status,
		Service:      h.serviceName,
		AIConfigured: configured,
	})
}

func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}
