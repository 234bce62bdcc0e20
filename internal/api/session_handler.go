package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Kali2114/ZenithFlowAPI/internal/repository"
	"github.com/Kali2114/ZenithFlowAPI/internal/service"
)

type SessionHandler struct {
	sessionService service.SessionService
	validate       *validator.Validate
}

func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		validate:       validator.New(),
	}
}

type CreateSessionRequest struct {
	Name         string      `json:"name" validate:"required,min=3,max=100"`
	Description  string      `json:"description,omitempty" validate:"max=500"`
	DurationMin  int         `json:"duration_min" validate:"required,min=1"`
	StartAt      time.Time   `json:"start_at" validate:"required"`
	Capacity     int         `json:"capacity" validate:"omitempty,min=1"`
	TechniqueIDs []uuid.UUID `json:"technique_ids,omitempty"`
}

func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)

	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error getting user ID from claims", slog.String("error", err.Error()))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	var request CreateSessionRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	if request.Capacity == 0 {
		request.Capacity = 20
	}

	session, err := h.sessionService.CreateSession(c.Context(), service.CreateSessionInput{
		BaseName:     request.Name,
		Description:  request.Description,
		InstructorID: userID,
		DurationMin:  request.DurationMin,
		StartAt:      request.StartAt,
		Capacity:     request.Capacity,
		TechniqueIDs: request.TechniqueIDs,
	})

	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNameTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrTechniqueNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			slog.ErrorContext(c.UserContext(), "Error creating session", slog.String("error", err.Error()))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create session"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID format"})
	}

	session, err := h.sessionService.GetSession(c.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
		}
		slog.ErrorContext(c.UserContext(), "Error getting session", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch session"})
	}

	return c.Status(fiber.StatusOK).JSON(session)
}

func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := 10

	result, err := h.sessionService.ListSessions(c.Context(), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch sessions"})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *SessionHandler) Calendar(c *fiber.Ctx) error {
	var filter repository.CalendarFilter

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date, expected YYYY-MM-DD"})
		}
		filter.StartDate = &parsed
	}

	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date, expected YYYY-MM-DD"})
		}
		filter.EndDate = &parsed
	}

	filter.Technique = c.Query("technique")

	sessions, err := h.sessionService.Calendar(c.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCalendarSpan) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch calendar"})
	}

	return c.Status(fiber.StatusOK).JSON(sessions)
}

type UpdateSessionRequest struct {
	Description *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	StartAt     *time.Time `json:"start_at,omitempty"`
	DurationMin *int       `json:"duration_min,omitempty" validate:"omitempty,min=1"`
	Capacity    *int       `json:"capacity,omitempty" validate:"omitempty,min=1"`
}

func (h *SessionHandler) UpdateSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID format"})
	}

	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	var request UpdateSessionRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	err = h.sessionService.UpdateSession(c.Context(), sessionID, userID, repository.SessionUpdate{
		Description: request.Description,
		StartAt:     request.StartAt,
		DurationMin: request.DurationMin,
		Capacity:    request.Capacity,
	})

	if err != nil {
		return sessionOwnershipError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Session updated"})
}

func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID format"})
	}

	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	if err := h.sessionService.DeleteSession(c.Context(), sessionID, userID); err != nil {
		return sessionOwnershipError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Session deleted"})
}

func (h *SessionHandler) CompleteSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID format"})
	}

	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	if err := h.sessionService.CompleteSession(c.Context(), sessionID, userID); err != nil {
		return sessionOwnershipError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Session completed"})
}

func (h *SessionHandler) SessionRatings(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID format"})
	}

	ratings, err := h.sessionService.SessionRatings(c.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch ratings"})
	}

	return c.Status(fiber.StatusOK).JSON(ratings)
}

func (h *SessionHandler) SessionTechniques(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID format"})
	}

	techniques, err := h.sessionService.SessionTechniques(c.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch techniques"})
	}

	return c.Status(fiber.StatusOK).JSON(techniques)
}

func sessionOwnershipError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	case errors.Is(err, service.ErrNotSessionOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	default:
		slog.ErrorContext(c.UserContext(), "Session operation failed", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
