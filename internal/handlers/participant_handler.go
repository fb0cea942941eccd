package handlers

import (
	"context"
	"errors"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/services"
	"github.com/gofiber/fiber/v2"
)

type participantApplicationService interface {
	AddParticipants(ctx context.Context, sessionID int64, userIDs []int64) ([]models.SessionParticipant, error)
	RemoveParticipant(ctx context.Context, sessionID, participantID int64) error
	ListParticipants(ctx context.Context, sessionID int64) ([]models.SessionParticipant, error)
	ListUserParticipations(ctx context.Context, userID int64) ([]models.SessionParticipant, error)
}

type ParticipantHandler struct {
	service participantApplicationService
}

func NewParticipantHandler(service participantApplicationService) *ParticipantHandler {
	return &ParticipantHandler{service: service}
}

type addParticipantsRequest struct {
	UserIDs []int64 `json:"user_ids"`
}

func (h *ParticipantHandler) AddParticipants(c *fiber.Ctx) error {
	if _, err := parseAuthUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req addParticipantsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	added, err := h.service.AddParticipants(c.Context(), sessionID, req.UserIDs)
	if err != nil {
		return mapParticipantError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"participants": added})
}

func (h *ParticipantHandler) RemoveParticipant(c *fiber.Ctx) error {
	if _, err := parseAuthUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}
	participantID, err := parseIDParam(c, "participantId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid participant id"})
	}

	if err := h.service.RemoveParticipant(c.Context(), sessionID, participantID); err != nil {
		return mapParticipantError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Participant removed"})
}

func (h *ParticipantHandler) ListParticipants(c *fiber.Ctx) error {
	if _, err := parseAuthUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	participants, err := h.service.ListParticipants(c.Context(), sessionID)
	if err != nil {
		return mapParticipantError(c, err)
	}

	return c.JSON(fiber.Map{"participants": participants})
}

func (h *ParticipantHandler) ListMyParticipations(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	participations, err := h.service.ListUserParticipations(c.Context(), userID)
	if err != nil {
		return mapParticipantError(c, err)
	}

	return c.JSON(fiber.Map{"participations": participations})
}

func mapParticipantError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrIllegalState):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Session is no longer active"})
	case errors.Is(err, services.ErrResourceNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Resource not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process participant request"})
	}
}
