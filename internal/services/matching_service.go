package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
	"github.com/Sourabh-codesjava/Talent-Tandem/internal/repository"
	"github.com/jackc/pgx/v5"
)

// fallbackExplanation is returned whenever the explainer is unavailable or
// fails; match results never wait on it succeeding.
const fallbackExplanation = "No match explanation available."

// Match points: both criteria met, exactly one met, or skill presence only.
const (
	scoreSkillOnly    = 1
	scoreOneCriterion = 2
	scoreBothCriteria = 3
)

type matchCandidateLister interface {
	ListBySkillID(ctx context.Context, skillID int64) ([]models.TeachSkill, error)
}

// MatchExplainer produces a one-line human explanation for a scored match.
type MatchExplainer interface {
	Explain(ctx context.Context, match models.MentorMatch, desiredLevel, desiredMode string) (string, error)
}

type MatchingService struct {
	teachSkillRepo *repository.TeachSkillRepository
	candidates     matchCandidateLister
	skillRepo      skillReader
	explainer      MatchExplainer
	notifier       NotificationGateway
}

func NewMatchingService(
	teachSkillRepo *repository.TeachSkillRepository,
	skillRepo skillReader,
	explainer MatchExplainer,
	notifier NotificationGateway,
) *MatchingService {
	return &MatchingService{
		teachSkillRepo: teachSkillRepo,
		candidates:     teachSkillRepo,
		skillRepo:      skillRepo,
		explainer:      explainer,
		notifier:       notifier,
	}
}

type DeclareTeachSkillInput struct {
	UserID           int64
	SkillID          int64
	ProficiencyLevel string
	PreferredMode    string
	ConfidenceScore  int
}

func (s *MatchingService) DeclareTeachSkill(ctx context.Context, input DeclareTeachSkillInput) (*models.TeachSkill, error) {
	input.ProficiencyLevel = strings.ToUpper(strings.TrimSpace(input.ProficiencyLevel))
	input.PreferredMode = strings.ToUpper(strings.TrimSpace(input.PreferredMode))

	if !models.ValidLevel(input.ProficiencyLevel) || !models.ValidMode(input.PreferredMode) {
		return nil, ErrInvalidInput
	}
	if input.ConfidenceScore < 1 || input.ConfidenceScore > 10 {
		return nil, ErrInvalidInput
	}

	if _, err := s.skillRepo.GetByID(ctx, input.SkillID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	record, err := s.teachSkillRepo.Create(ctx, repository.CreateTeachSkillInput{
		UserID:           input.UserID,
		SkillID:          input.SkillID,
		ProficiencyLevel: input.ProficiencyLevel,
		PreferredMode:    input.PreferredMode,
		ConfidenceScore:  input.ConfidenceScore,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("user %d declared teach skill %d at %s", input.UserID, input.SkillID, input.ProficiencyLevel)
	return record, nil
}

type MatchRequest struct {
	LearnerID    int64
	SkillID      int64
	DesiredLevel string
	DesiredMode  string
}

// FindMatches scores every mentor teaching the skill and returns them ranked
// by score, then confidence. The learner's own records are excluded.
func (s *MatchingService) FindMatches(ctx context.Context, req MatchRequest) ([]models.MentorMatch, error) {
	req.DesiredLevel = strings.ToUpper(strings.TrimSpace(req.DesiredLevel))
	req.DesiredMode = strings.ToUpper(strings.TrimSpace(req.DesiredMode))
	if !models.ValidLevel(req.DesiredLevel) || !models.ValidMode(req.DesiredMode) {
		return nil, ErrInvalidInput
	}

	if _, err := s.skillRepo.GetByID(ctx, req.SkillID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	candidates, err := s.candidates.ListBySkillID(ctx, req.SkillID)
	if err != nil {
		return nil, err
	}

	matches := make([]models.MentorMatch, 0, len(candidates))
	for _, c := range candidates {
		if c.UserID == req.LearnerID {
			continue
		}
		matches = append(matches, models.MentorMatch{
			MentorID:         c.UserID,
			MentorName:       c.Username,
			SkillID:          c.SkillID,
			SkillName:        c.SkillName,
			ProficiencyLevel: c.ProficiencyLevel,
			ConfidenceScore:  c.ConfidenceScore,
			PreferredMode:    c.PreferredMode,
			MatchScore:       scoreCandidate(c, req.DesiredLevel, req.DesiredMode),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].MatchScore != matches[j].MatchScore {
			return matches[i].MatchScore > matches[j].MatchScore
		}
		return matches[i].ConfidenceScore > matches[j].ConfidenceScore
	})

	for i := range matches {
		matches[i].MatchExplanation = s.explain(ctx, matches[i], req.DesiredLevel, req.DesiredMode)
	}

	if len(matches) > 0 {
		top := matches[0]
		publish(s.notifier, "matches", req.LearnerID, MatchEvent{
			LearnerID:  req.LearnerID,
			MentorID:   top.MentorID,
			MentorName: top.MentorName,
			SkillName:  top.SkillName,
			Message:    fmt.Sprintf("Found %d mentors for %s. Top match: %s", len(matches), top.SkillName, top.MentorName),
		})
	}

	return matches, nil
}

// scoreCandidate awards 3 points when the mentor's proficiency meets the
// desired level and the preferred mode matches, 2 when exactly one of the
// two holds, and 1 for merely teaching the skill.
func scoreCandidate(c models.TeachSkill, desiredLevel, desiredMode string) int {
	levelMet := models.LevelAtLeast(c.ProficiencyLevel, desiredLevel)
	modeMet := c.PreferredMode == desiredMode

	switch {
	case levelMet && modeMet:
		return scoreBothCriteria
	case levelMet || modeMet:
		return scoreOneCriterion
	default:
		return scoreSkillOnly
	}
}

func (s *MatchingService) explain(ctx context.Context, match models.MentorMatch, desiredLevel, desiredMode string) string {
	if s.explainer == nil {
		return fallbackExplanation
	}
	explanation, err := s.explainer.Explain(ctx, match, desiredLevel, desiredMode)
	if err != nil {
		log.Printf("match explanation for mentor %d unavailable: %v", match.MentorID, err)
		return fallbackExplanation
	}
	explanation = strings.TrimSpace(explanation)
	if explanation == "" {
		return fallbackExplanation
	}
	return explanation
}
