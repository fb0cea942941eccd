package handlers

import (
	"context"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
	"github.com/gofiber/fiber/v2"
)

type skillLister interface {
	List(ctx context.Context) ([]models.Skill, error)
}

type SkillHandler struct {
	skillRepo skillLister
}

func NewSkillHandler(skillRepo skillLister) *SkillHandler {
	return &SkillHandler{skillRepo: skillRepo}
}

func (h *SkillHandler) ListSkills(c *fiber.Ctx) error {
	skills, err := h.skillRepo.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch skills"})
	}
	return c.JSON(fiber.Map{"skills": skills})
}
