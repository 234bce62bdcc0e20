package api

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Kali2114/ZenithFlowAPI/internal/repository"
	"github.com/Kali2114/ZenithFlowAPI/internal/s3"
	"github.com/Kali2114/ZenithFlowAPI/internal/service"
)

type UserHandler struct {
	userService service.UserService
	presigner   *s3.AvatarPresigner
	validate    *validator.Validate
}

func NewUserHandler(userService service.UserService, presigner *s3.AvatarPresigner) *UserHandler {
	return &UserHandler{
		userService: userService,
		presigner:   presigner,
		validate:    validator.New(),
	}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	profile, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileMissing) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch profile"})
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

type UpdateProfileRequest struct {
	Biography *string `json:"biography,omitempty" validate:"omitempty,max=1000"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	var request UpdateProfileRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	profile, err := h.userService.UpdateProfile(c.Context(), userID, repository.ProfileUpdate{
		Biography: request.Biography,
		AvatarURL: request.AvatarURL,
	})

	if err != nil {
		if errors.Is(err, service.ErrProfileMissing) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		slog.ErrorContext(c.UserContext(), "Error updating profile", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update profile"})
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

type AddFundsRequest struct {
	AmountCents int64 `json:"amount_cents" validate:"required,min=1"`
}

func (h *UserHandler) AddFunds(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	var request AddFundsRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	balance, err := h.userService.AddFunds(c.Context(), userID, request.AmountCents)

	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not add funds"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"balance_cents": balance})
}

func (h *UserHandler) PresignAvatarUpload(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	if h.presigner == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Avatar uploads are not configured"})
	}

	uploadURL, objectKey, err := h.presigner.PresignAvatarUpload(c.Context(), userID)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error presigning avatar upload", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not generate upload URL"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"upload_url": uploadURL,
		"object_key": objectKey,
	})
}

type RegisterDeviceTokenRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"omitempty,oneof=ios android"`
}

func (h *UserHandler) RegisterDeviceToken(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	var request RegisterDeviceTokenRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	if err := h.userService.RegisterDeviceToken(c.Context(), userID, request.Token, request.Platform); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not register device token"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Device token registered"})
}
