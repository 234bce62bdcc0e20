package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Kali2114/ZenithFlowAPI/internal/service"
)

type TechniqueHandler struct {
	techniqueService service.TechniqueService
	validate         *validator.Validate
}

func NewTechniqueHandler(techniqueService service.TechniqueService) *TechniqueHandler {
	return &TechniqueHandler{
		techniqueService: techniqueService,
		validate:         validator.New(),
	}
}

type TechniqueRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

func (h *TechniqueHandler) CreateTechnique(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	var request TechniqueRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	technique, err := h.techniqueService.CreateTechnique(c.Context(), request.Name, request.Description, userID)
	if err != nil {
		if errors.Is(err, service.ErrTechniqueNameTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create technique"})
	}

	return c.Status(fiber.StatusCreated).JSON(technique)
}

func (h *TechniqueHandler) GetTechnique(c *fiber.Ctx) error {
	techniqueID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid technique ID format"})
	}

	technique, err := h.techniqueService.GetTechnique(c.Context(), techniqueID)
	if err != nil {
		if errors.Is(err, service.ErrTechniqueNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch technique"})
	}

	return c.Status(fiber.StatusOK).JSON(technique)
}

func (h *TechniqueHandler) ListTechniques(c *fiber.Ctx) error {
	techniques, err := h.techniqueService.ListTechniques(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch techniques"})
	}

	return c.Status(fiber.StatusOK).JSON(techniques)
}

func (h *TechniqueHandler) UpdateTechnique(c *fiber.Ctx) error {
	techniqueID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid technique ID format"})
	}

	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	var request TechniqueRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	err = h.techniqueService.UpdateTechnique(c.Context(), techniqueID, userID, request.Name, request.Description)
	if err != nil {
		return techniqueOwnershipError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Technique updated"})
}

func (h *TechniqueHandler) DeleteTechnique(c *fiber.Ctx) error {
	techniqueID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid technique ID format"})
	}

	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	if err := h.techniqueService.DeleteTechnique(c.Context(), techniqueID, userID); err != nil {
		return techniqueOwnershipError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Technique deleted"})
}

func techniqueOwnershipError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTechniqueNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotTechniqueOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
