package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/Kali2114/ZenithFlowAPI/internal/service"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) Panel(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	stats, err := h.adminService.PanelStats(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrInstructorNotFound) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Instructor role required"})
		}
		slog.ErrorContext(c.UserContext(), "Error building panel stats", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not build panel"})
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

func (h *AdminHandler) Report(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	report, err := h.adminService.BuildReport(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrInstructorNotFound) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Instructor role required"})
		}
		slog.ErrorContext(c.UserContext(), "Error building report", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not build report"})
	}

	return c.Status(fiber.StatusOK).JSON(report)
}
