package handler

import (
	"github.com/gofiber/fiber/v2"

	"koperasi-web/internal/service"
	"koperasi-web/internal/utils"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve dashboard stats", err)
	}

	return utils.SuccessResponse(c, "Dashboard stats retrieved successfully", stats)
}
