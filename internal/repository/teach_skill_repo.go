package repository

import (
	"context"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
)

type CreateTeachSkillInput struct {
	UserID           int64
	SkillID          int64
	ProficiencyLevel string
	PreferredMode    string
	ConfidenceScore  int
}

type TeachSkillRepository struct {
	db DBTX
}

func NewTeachSkillRepository(db DBTX) *TeachSkillRepository {
	return &TeachSkillRepository{db: db}
}

func (r *TeachSkillRepository) Create(ctx context.Context, input CreateTeachSkillInput) (*models.TeachSkill, error) {
	query := `
		INSERT INTO user_teach_skills (user_id, skill_id, proficiency_level, preferred_mode, confidence_score)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, skill_id, proficiency_level, preferred_mode, confidence_score, created_at
	`
	var ts models.TeachSkill
	err := r.db.QueryRow(
		ctx,
		query,
		input.UserID,
		input.SkillID,
		input.ProficiencyLevel,
		input.PreferredMode,
		input.ConfidenceScore,
	).Scan(
		&ts.ID,
		&ts.UserID,
		&ts.SkillID,
		&ts.ProficiencyLevel,
		&ts.PreferredMode,
		&ts.ConfidenceScore,
		&ts.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// ListBySkillID returns every mentor's declared teaching record for the
// skill, with display names resolved. Ordered by id so the scorer's stable
// sort has a deterministic base order.
func (r *TeachSkillRepository) ListBySkillID(ctx context.Context, skillID int64) ([]models.TeachSkill, error) {
	query := `
		SELECT ts.id, ts.user_id, u.username, ts.skill_id, s.name, ts.proficiency_level,
		       ts.preferred_mode, ts.confidence_score, ts.created_at
		FROM user_teach_skills ts
		JOIN users u ON u.id = ts.user_id
		JOIN skills s ON s.id = ts.skill_id
		WHERE ts.skill_id = $1
		ORDER BY ts.id ASC
	`
	rows, err := r.db.Query(ctx, query, skillID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.TeachSkill, 0)
	for rows.Next() {
		var ts models.TeachSkill
		if err := rows.Scan(
			&ts.ID,
			&ts.UserID,
			&ts.Username,
			&ts.SkillID,
			&ts.SkillName,
			&ts.ProficiencyLevel,
			&ts.PreferredMode,
			&ts.ConfidenceScore,
			&ts.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
