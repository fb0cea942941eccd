package repository

import (
	"context"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
)

type SkillRepository struct {
	db DBTX
}

func NewSkillRepository(db DBTX) *SkillRepository {
	return &SkillRepository{db: db}
}

func (r *SkillRepository) GetByID(ctx context.Context, skillID int64) (*models.Skill, error) {
	query := `
		SELECT id, name, description
		FROM skills
		WHERE id = $1
	`
	var skill models.Skill
	err := r.db.QueryRow(ctx, query, skillID).Scan(&skill.ID, &skill.Name, &skill.Description)
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *SkillRepository) List(ctx context.Context) ([]models.Skill, error) {
	query := `
		SELECT id, name, description
		FROM skills
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]models.Skill, 0)
	for rows.Next() {
		var skill models.Skill
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.Description); err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return skills, nil
}
