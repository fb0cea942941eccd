package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/services"
	"github.com/gofiber/fiber/v2"
)

type matchApplicationService interface {
	DeclareTeachSkill(ctx context.Context, input services.DeclareTeachSkillInput) (*models.TeachSkill, error)
	FindMatches(ctx context.Context, req services.MatchRequest) ([]models.MentorMatch, error)
}

type MatchHandler struct {
	service matchApplicationService
}

func NewMatchHandler(service matchApplicationService) *MatchHandler {
	return &MatchHandler{service: service}
}

type declareTeachSkillRequest struct {
	SkillID          int64  `json:"skill_id"`
	ProficiencyLevel string `json:"proficiency_level"`
	PreferredMode    string `json:"preferred_mode"`
	ConfidenceScore  int    `json:"confidence_score"`
}

func (h *MatchHandler) DeclareTeachSkill(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req declareTeachSkillRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	record, err := h.service.DeclareTeachSkill(c.Context(), services.DeclareTeachSkillInput{
		UserID:           userID,
		SkillID:          req.SkillID,
		ProficiencyLevel: req.ProficiencyLevel,
		PreferredMode:    req.PreferredMode,
		ConfidenceScore:  req.ConfidenceScore,
	})
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"teach_skill": record})
}

func (h *MatchHandler) FindMatches(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	skillID, err := strconv.ParseInt(c.Query("skill_id"), 10, 64)
	if err != nil || skillID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "skill_id query parameter is required"})
	}

	matches, err := h.service.FindMatches(c.Context(), services.MatchRequest{
		LearnerID:    userID,
		SkillID:      skillID,
		DesiredLevel: c.Query("level"),
		DesiredMode:  c.Query("mode"),
	})
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(fiber.Map{"matches": matches})
}

func mapMatchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrResourceNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process match request"})
	}
}
