package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/services"
	"github.com/gofiber/fiber/v2"
)

type sessionApplicationService interface {
	BookSession(ctx context.Context, input services.BookSessionInput) (*models.SessionDetail, error)
	SetStatus(ctx context.Context, sessionID int64, requestedStatus string) (*models.SessionDetail, error)
	StartSession(ctx context.Context, sessionID int64, actingUserID int64) (*services.StartSessionResult, error)
	JoinSession(ctx context.Context, sessionID int64, actingUserID int64) (*services.JoinSessionResult, error)
	CompleteSession(ctx context.Context, sessionID int64, actingUserID int64) (*services.CompleteSessionResult, error)
	CancelSessionByMentor(ctx context.Context, sessionID int64, actingUserID int64) (*models.SessionDetail, error)
	CancelSessionByLearner(ctx context.Context, sessionID int64, actingUserID int64) (*models.SessionDetail, error)
	GetSession(ctx context.Context, sessionID int64) (*models.SessionDetail, error)
	ListSessionsByUser(ctx context.Context, userID int64) ([]models.SessionDetail, error)
}

type SessionHandler struct {
	service sessionApplicationService
}

func NewSessionHandler(service sessionApplicationService) *SessionHandler {
	return &SessionHandler{service: service}
}

type bookSessionRequest struct {
	MentorID         int64   `json:"mentor_id"`
	SkillID          int64   `json:"skill_id"`
	LearnerIDs       []int64 `json:"learner_ids"`
	Agenda           *string `json:"agenda"`
	ScheduledTime    string  `json:"scheduled_time"`
	DurationMinutes  int     `json:"duration_minutes"`
	LearningOutcomes *string `json:"learning_outcomes"`
	SessionType      string  `json:"session_type"`
}

type updateSessionStatusRequest struct {
	Status string `json:"status"`
}

func (h *SessionHandler) BookSession(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req bookSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	scheduledTime, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledTime))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scheduled_time must be a valid RFC3339 timestamp"})
	}
	if req.DurationMinutes <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "duration_minutes must be greater than 0"})
	}

	detail, err := h.service.BookSession(c.Context(), services.BookSessionInput{
		MentorID:         req.MentorID,
		SkillID:          req.SkillID,
		LearnerID:        userID,
		LearnerIDs:       req.LearnerIDs,
		Agenda:           req.Agenda,
		ScheduledTime:    scheduledTime,
		DurationMinutes:  req.DurationMinutes,
		LearningOutcomes: req.LearningOutcomes,
		SessionType:      req.SessionType,
	})
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session": detail})
}

func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessions, err := h.service.ListSessionsByUser(c.Context(), userID)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	if _, err := parseAuthUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	session, err := h.service.GetSession(c.Context(), sessionID)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) UpdateStatus(c *fiber.Ctx) error {
	if _, err := parseAuthUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req updateSessionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	session, err := h.service.SetStatus(c.Context(), sessionID, req.Status)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	result, err := h.service.StartSession(c.Context(), sessionID, userID)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(result)
}

func (h *SessionHandler) JoinSession(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	result, err := h.service.JoinSession(c.Context(), sessionID, userID)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(result)
}

func (h *SessionHandler) CompleteSession(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	result, err := h.service.CompleteSession(c.Context(), sessionID, userID)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(result)
}

func (h *SessionHandler) CancelByMentor(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	session, err := h.service.CancelSessionByMentor(c.Context(), sessionID, userID)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) CancelByLearner(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	session, err := h.service.CancelSessionByLearner(c.Context(), sessionID, userID)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"session": session})
}

func mapSessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInsufficientCoins):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "Insufficient coins to book this session"})
	case errors.Is(err, services.ErrIllegalState):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Session is not in a valid state for this operation"})
	case errors.Is(err, services.ErrResourceNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Resource not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process session request"})
	}
}
