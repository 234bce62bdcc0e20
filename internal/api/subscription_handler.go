package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/Kali2114/ZenithFlowAPI/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func (h *SubscriptionHandler) Purchase(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	result, err := h.subscriptionService.Purchase(c.Context(), userID)

	if err != nil {
		if errors.Is(err, service.ErrInsufficientFunds) {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": err.Error()})
		}
		slog.ErrorContext(c.UserContext(), "Error purchasing subscription", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not purchase subscription"})
	}

	status := fiber.StatusCreated
	if result.Renewed {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(result)
}

func (h *SubscriptionHandler) ListMySubscriptions(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	subscriptions, err := h.subscriptionService.ListUserSubscriptions(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch subscriptions"})
	}

	return c.Status(fiber.StatusOK).JSON(subscriptions)
}

func (h *SubscriptionHandler) Status(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	active, err := h.subscriptionService.HasActive(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not check subscription status"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"active": active})
}
